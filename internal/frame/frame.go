// Package frame implements the monochrome raster that Gizmo scripts produce,
// along with playback state and text rendering.
package frame

import (
	"fmt"
	"strings"
)

// ErrorKind classifies frame errors.
type ErrorKind uint8

const (
	Invalid ErrorKind = iota // malformed construction input
	Bounds                   // coordinate outside the raster
)

// Error is returned by frame operations.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func invalidf(format string, args ...interface{}) error {
	return &Error{Kind: Invalid, Msg: fmt.Sprintf(format, args...)}
}

func boundsf(format string, args ...interface{}) error {
	return &Error{Kind: Bounds, Msg: fmt.Sprintf(format, args...)}
}

// Frame is a rectangular grid of on/off pixels stored row-major.
// Every row holds exactly Width pixels.
type Frame struct {
	width  int
	height int
	pix    [][]bool
}

// FromRows builds a frame from a copy of rows. It fails when rows is empty
// or when the rows differ in length.
func FromRows(rows [][]bool) (*Frame, error) {
	if len(rows) == 0 {
		return nil, invalidf("frame has no rows")
	}
	width := len(rows[0])
	f := &Frame{width: width, height: len(rows), pix: make([][]bool, len(rows))}
	for i, r := range rows {
		if len(r) != width {
			return nil, invalidf("row %d has %d pixels, want %d", i, len(r), width)
		}
		f.pix[i] = append([]bool(nil), r...)
	}
	return f, nil
}

// Blank returns a w×h frame with every pixel off.
// Negative sizes are treated as zero.
func Blank(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	f := &Frame{width: w, height: h, pix: make([][]bool, h)}
	for i := range f.pix {
		f.pix[i] = make([]bool, w)
	}
	return f
}

// Parse builds a frame from text art: one line per row, '#' for on and
// '.' for off. Blank lines and surrounding spaces are ignored.
func Parse(art string) (*Frame, error) {
	var rows [][]bool
	for _, line := range strings.Split(art, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]bool, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '#':
				row = append(row, true)
			case '.':
				row = append(row, false)
			default:
				return nil, invalidf("unexpected %q in frame art", ch)
			}
		}
		rows = append(rows, row)
	}
	return FromRows(rows)
}

// MustParse is like Parse but panics on error.
func MustParse(art string) *Frame {
	f, err := Parse(art)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

// Rows returns a copy of the pixel grid.
func (f *Frame) Rows() [][]bool {
	rows := make([][]bool, f.height)
	for i, r := range f.pix {
		rows[i] = append([]bool(nil), r...)
	}
	return rows
}

// InBounds reports whether (row, col) addresses a pixel.
func (f *Frame) InBounds(row, col int) bool {
	return row >= 0 && row < f.height && col >= 0 && col < f.width
}

// At returns the pixel at (row, col), or false outside the frame.
func (f *Frame) At(row, col int) bool {
	if !f.InBounds(row, col) {
		return false
	}
	return f.pix[row][col]
}

// Get returns the pixel at (row, col).
func (f *Frame) Get(row, col int) (bool, error) {
	if !f.InBounds(row, col) {
		return false, f.outOfBounds(row, col)
	}
	return f.pix[row][col], nil
}

// Set changes the pixel at (row, col) in place.
func (f *Frame) Set(row, col int, on bool) error {
	if !f.InBounds(row, col) {
		return f.outOfBounds(row, col)
	}
	f.pix[row][col] = on
	return nil
}

func (f *Frame) outOfBounds(row, col int) error {
	return boundsf("position (%d, %d) is out of bounds for %dx%d frame", row, col, f.width, f.height)
}

// Row returns row i as a new 1-row frame.
func (f *Frame) Row(i int) (*Frame, error) {
	if i < 0 || i >= f.height {
		return nil, boundsf("row index %d out of range [0, %d)", i, f.height)
	}
	return &Frame{width: f.width, height: 1, pix: [][]bool{append([]bool(nil), f.pix[i]...)}}, nil
}

// CountNeighbors counts the on pixels among the eight cells around
// (row, col). Cells past the edge count as off.
func (f *Frame) CountNeighbors(row, col int) (int, error) {
	if !f.InBounds(row, col) {
		return 0, f.outOfBounds(row, col)
	}
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if f.At(row+dr, col+dc) {
				n++
			}
		}
	}
	return n, nil
}

// Flip inverts every pixel in place.
func (f *Frame) Flip() {
	for _, r := range f.pix {
		for c := range r {
			r[c] = !r[c]
		}
	}
}

// Rotate90 returns the frame rotated a quarter turn clockwise.
func (f *Frame) Rotate90() *Frame {
	out := Blank(f.height, f.width)
	for r := 0; r < f.height; r++ {
		for c := 0; c < f.width; c++ {
			out.pix[c][f.height-1-r] = f.pix[r][c]
		}
	}
	return out
}

// PlaceSprite ORs sprite onto f with its top-left corner at column x,
// row y. Sprite pixels that land outside f are dropped.
func (f *Frame) PlaceSprite(sprite *Frame, x, y int) {
	for r := 0; r < sprite.height; r++ {
		for c := 0; c < sprite.width; c++ {
			if !sprite.pix[r][c] {
				continue
			}
			tr, tc := y+r, x+c
			if f.InBounds(tr, tc) {
				f.pix[tr][tc] = true
			}
		}
	}
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	return &Frame{width: f.width, height: f.height, pix: f.Rows()}
}

// Equal reports whether f and g have the same size and pixels.
func (f *Frame) Equal(g *Frame) bool {
	if f == g {
		return true
	}
	if f == nil || g == nil || f.width != g.width || f.height != g.height {
		return false
	}
	for r := range f.pix {
		for c := range f.pix[r] {
			if f.pix[r][c] != g.pix[r][c] {
				return false
			}
		}
	}
	return true
}

// Lit returns the number of on pixels.
func (f *Frame) Lit() int {
	n := 0
	for _, r := range f.pix {
		for _, on := range r {
			if on {
				n++
			}
		}
	}
	return n
}

// Scale resizes f to w×h by nearest-neighbour sampling.
func (f *Frame) Scale(w, h int) *Frame {
	out := Blank(w, h)
	if f.width == 0 || f.height == 0 {
		return out
	}
	for r := 0; r < h; r++ {
		sr := r * f.height / h
		for c := 0; c < w; c++ {
			out.pix[r][c] = f.pix[sr][c*f.width/w]
		}
	}
	return out
}

// String renders f as ASCII art, one line per row.
func (f *Frame) String() string {
	var b strings.Builder
	Fprint(&b, f, ASCII)
	return b.String()
}
