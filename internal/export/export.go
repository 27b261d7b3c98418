// Package export encodes frames as images: an animated GIF for a frame
// sequence or a PNG for a single frame.
package export

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/you-not-fish/gizmo/internal/frame"
)

var ErrNoFrames = errors.New("nothing to export")

// Palette maps off pixels to index 0 and on pixels to index 1.
var Palette = color.Palette{color.Black, color.White}

// Options controls encoding.
type Options struct {
	Scale      int   // edge of one frame pixel in image pixels, at least 1
	DurationMs int64 // per-frame delay for GIFs
	Loop       bool  // GIF repeats forever; otherwise it plays once
}

func (o Options) scale() int {
	if o.Scale < 1 {
		return 1
	}
	return o.Scale
}

// Image renders f at the given scale.
func Image(f *frame.Frame, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, f.Width()*scale, f.Height()*scale), Palette)
	for r := 0; r < f.Height(); r++ {
		for c := 0; c < f.Width(); c++ {
			if !f.At(r, c) {
				continue
			}
			for y := r * scale; y < (r+1)*scale; y++ {
				for x := c * scale; x < (c+1)*scale; x++ {
					img.SetColorIndex(x, y, 1)
				}
			}
		}
	}
	return img
}

// GIF writes frames as an animated GIF. The canvas is large enough for
// the biggest frame; smaller frames sit in the top-left corner.
func GIF(w io.Writer, frames []*frame.Frame, opts Options) error {
	if err := check(frames); err != nil {
		return err
	}
	scale := opts.scale()

	delay := int(frame.ClampDuration(opts.DurationMs) / 10)
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{LoopCount: -1}
	if opts.Loop {
		anim.LoopCount = 0
	}
	for _, f := range frames {
		img := Image(f, scale)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
		anim.Config.Width = max(anim.Config.Width, img.Bounds().Dx())
		anim.Config.Height = max(anim.Config.Height, img.Bounds().Dy())
	}
	anim.Config.ColorModel = Palette
	return errors.Wrap(gif.EncodeAll(w, anim), "encode gif")
}

// PNG writes a single frame.
func PNG(w io.Writer, f *frame.Frame, scale int) error {
	if err := check([]*frame.Frame{f}); err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, Image(f, scale)), "encode png")
}

func check(frames []*frame.Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	for i, f := range frames {
		if f.Width() == 0 || f.Height() == 0 {
			return errors.Errorf("frame %d is empty (%dx%d)", i, f.Width(), f.Height())
		}
	}
	return nil
}

// WriteFile encodes frames into path, choosing the format from its
// extension: .png writes the first frame, anything else a GIF. It returns
// the number of bytes written.
func WriteFile(path string, frames []*frame.Frame, opts Options) (int64, error) {
	if err := check(frames); err != nil {
		return 0, err
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create output")
	}
	cw := &countWriter{w: out}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = PNG(cw, frames[0], opts.scale())
	} else {
		err = GIF(cw, frames, opts)
	}
	if cerr := out.Close(); err == nil {
		err = errors.Wrap(cerr, "close output")
	}
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
