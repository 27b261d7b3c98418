package player

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/you-not-fish/gizmo/internal/frame"
)

// clearScreen homes the cursor and clears a VT100 terminal.
const clearScreen = "\x1b[H\x1b[2J"

// TermSink writes frames as text.
type TermSink struct {
	W     io.Writer
	Style frame.Style

	// MaxWidth scales wider frames down. Zero disables scaling.
	MaxWidth int

	// Clear redraws in place instead of appending.
	Clear bool
}

func (s *TermSink) Show(f *frame.Frame) error {
	var buf bytes.Buffer
	if s.Clear {
		buf.WriteString(clearScreen)
	}
	if err := frame.Fprint(&buf, Fit(f, s.MaxWidth), s.Style); err != nil {
		return err
	}
	_, err := s.W.Write(buf.Bytes())
	return err
}

// FileSink replaces the contents of Path with each frame.
type FileSink struct {
	Path  string
	Style frame.Style
}

func (s *FileSink) Show(f *frame.Frame) error {
	tmp := s.Path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "create frame file")
	}
	if err := frame.Fprint(out, f, s.Style); err != nil {
		out.Close()
		return errors.Wrap(err, "write frame file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "write frame file")
	}
	return errors.Wrap(os.Rename(tmp, s.Path), "replace frame file")
}

// Fit scales f down to maxWidth columns, keeping its aspect ratio.
func Fit(f *frame.Frame, maxWidth int) *frame.Frame {
	if maxWidth <= 0 || f.Width() <= maxWidth {
		return f
	}
	h := f.Height() * maxWidth / f.Width()
	if h < 1 {
		h = 1
	}
	return f.Scale(maxWidth, h)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ResolveStyle maps a configured style name to a frame style. "auto"
// selects blocks when out is a terminal and ASCII otherwise.
func ResolveStyle(name string, out *os.File) (frame.Style, error) {
	if name == "auto" {
		if IsTerminal(out) {
			return frame.Blocks, nil
		}
		return frame.ASCII, nil
	}
	s, ok := frame.StyleByName(name)
	if !ok {
		return frame.Style{}, errors.Errorf("unknown style %q", name)
	}
	return s, nil
}

// LineClicks turns every line read from r into a click. The channel is
// closed when r is exhausted or ctx is done.
func LineClicks(ctx context.Context, r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
