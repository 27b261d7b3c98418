// Package value defines the runtime values of Gizmo scripts.
package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/you-not-fish/gizmo/internal/frame"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	NumberKind Kind = iota
	StringKind
	BooleanKind
	FrameKind
	FramesKind
)

var kindNames = [...]string{
	NumberKind:  "number",
	StringKind:  "text",
	BooleanKind: "boolean",
	FrameKind:   "frame",
	FramesKind:  "frames",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a runtime value. The concrete types are Number, String,
// Boolean, Frame and Frames.
type Value interface {
	Kind() Kind
	aValue()
}

type (
	Number  float64
	String  string
	Boolean bool

	// Frame wraps a single raster.
	Frame struct{ F *frame.Frame }

	// Frames is an ordered frame sequence.
	Frames []*frame.Frame
)

func (Number) Kind() Kind  { return NumberKind }
func (String) Kind() Kind  { return StringKind }
func (Boolean) Kind() Kind { return BooleanKind }
func (Frame) Kind() Kind   { return FrameKind }
func (Frames) Kind() Kind  { return FramesKind }

func (Number) aValue()  {}
func (String) aValue()  {}
func (Boolean) aValue() {}
func (Frame) aValue()   {}
func (Frames) aValue()  {}

var (
	True  = Boolean(true)
	False = Boolean(false)
)

// Epsilon is the tolerance for numeric equality.
const Epsilon = 2.220446049250313e-16

// ErrNotNumeric is wrapped by ToNumber failures.
var ErrNotNumeric = errors.New("not numeric")

// ToNumber converts v to a number. Booleans map to 1 and 0 and text is
// parsed as a decimal. Frames are never numeric.
func ToNumber(v Value) (float64, error) {
	switch v := v.(type) {
	case Number:
		return float64(v), nil
	case Boolean:
		if v {
			return 1, nil
		}
		return 0, nil
	case String:
		n, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number: %w", string(v), ErrNotNumeric)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot convert %s to number: %w", TypeName(v), ErrNotNumeric)
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Boolean:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	case Frame:
		return true
	case Frames:
		return len(v) > 0
	}
	return false
}

// Equal reports structural equality. Values of different kinds are never
// equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		return ok && numberEqual(float64(a), float64(b))
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case Frame:
		b, ok := b.(Frame)
		return ok && a.F.Equal(b.F)
	case Frames:
		b, ok := b.(Frames)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// numberEqual compares within Epsilon. Infinities equal themselves and NaN
// equals NaN, so equality stays reflexive.
func numberEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < Epsilon
}

// TypeName returns the script-level name of v's type.
func TypeName(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}

// Format renders v for print and the REPL. Integral numbers print
// without a fractional part.
func Format(v Value) string {
	switch v := v.(type) {
	case Number:
		return FormatNumber(float64(v))
	case String:
		return string(v)
	case Boolean:
		return strconv.FormatBool(bool(v))
	case Frame:
		return fmt.Sprintf("<frame %dx%d>", v.F.Width(), v.F.Height())
	case Frames:
		return fmt.Sprintf("<frames len=%d>", len(v))
	}
	return "<nothing>"
}

// FormatNumber formats n the way scripts print numbers.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// NewFrame wraps f.
func NewFrame(f *frame.Frame) Frame { return Frame{F: f} }
