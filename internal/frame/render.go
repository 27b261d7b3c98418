package frame

import (
	"bufio"
	"fmt"
	"io"
)

// Style maps pixel states to runes for text output.
type Style struct {
	On  rune
	Off rune
}

var (
	ASCII  = Style{On: '#', Off: '.'}
	Blocks = Style{On: '█', Off: ' '}
)

// StyleByName returns the named style: "ascii" or "blocks".
func StyleByName(name string) (Style, bool) {
	switch name {
	case "ascii":
		return ASCII, true
	case "blocks":
		return Blocks, true
	}
	return Style{}, false
}

// Fprint writes f to w, one line per row, each terminated by '\n'.
func Fprint(w io.Writer, f *Frame, s Style) error {
	bw := bufio.NewWriter(w)
	for _, r := range f.pix {
		for _, on := range r {
			if on {
				bw.WriteRune(s.On)
			} else {
				bw.WriteRune(s.Off)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FprintAll writes frames in order, each under a "frame i/n (WxH)" header,
// with a blank line between frames.
func FprintAll(w io.Writer, frames []*Frame, s Style) error {
	for i, f := range frames {
		sep := ""
		if i > 0 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "%sframe %d/%d (%dx%d)\n", sep, i+1, len(frames), f.width, f.height); err != nil {
			return err
		}
		if err := Fprint(w, f, s); err != nil {
			return err
		}
	}
	return nil
}
