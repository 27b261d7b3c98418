package interp

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/value"
)

// CanvasSize is the edge of the canvas place_sprite draws on when no
// destination frame is given.
const CanvasSize = 128

// builtin is an entry of the builtin registry. Variadic builtins have
// maxArgs < 0.
type builtin struct {
	name    string
	minArgs int
	maxArgs int
	fn      func(in *Interpreter, args []value.Value) (value.Value, error)
}

func (b *builtin) checkArity(n int) error {
	switch {
	case b.maxArgs < 0 && n < b.minArgs:
		return argErrorf("%s expects at least %d arguments, got %d", b.name, b.minArgs, n)
	case b.maxArgs >= 0 && (n < b.minArgs || n > b.maxArgs):
		if b.minArgs == b.maxArgs {
			return argErrorf("%s expects %d %s, got %d", b.name, b.minArgs, plural(b.minArgs, "argument"), n)
		}
		return argErrorf("%s expects %d to %d arguments, got %d", b.name, b.minArgs, b.maxArgs, n)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

var builtins = map[string]*builtin{}

func register(name string, minArgs, maxArgs int, fn func(*Interpreter, []value.Value) (value.Value, error)) {
	builtins[name] = &builtin{name: name, minArgs: minArgs, maxArgs: maxArgs, fn: fn}
}

func init() {
	// Math
	register("sin", 1, 1, math1(math.Sin))
	register("cos", 1, 1, math1(math.Cos))
	register("tan", 1, 1, math1(math.Tan))
	register("floor", 1, 1, math1(math.Floor))
	register("ceil", 1, 1, math1(math.Ceil))
	register("abs", 1, 1, math1(math.Abs))
	register("atan2", 2, 2, biAtan2)
	register("sqrt", 1, 1, biSqrt)
	register("random", 0, 0, biRandom)
	register("min", 1, -1, biMin)
	register("max", 1, -1, biMax)

	// Frames
	register("len", 1, 1, biLen)
	register("count_neighbors", 3, 3, biCountNeighbors)
	register("get_pixel", 3, 3, biGetPixel)
	register("set_pixel", 4, 4, biSetPixel)
	register("flip", 1, 1, biFlip)
	register("rotate", 1, 1, biRotate)
	register("place_sprite", 3, 4, biPlaceSprite)
	register("create_frame", 2, 2, biCreateFrame)
	register("last_frame", 1, 1, biLastFrame)

	register("print", 0, -1, biPrint)

	// The interpreter handles these names itself before the registry is
	// consulted. The entries only keep the names listed as builtins.
	for _, name := range interceptedNames {
		register(name, 0, -1, inert)
	}
}

// BuiltinNames returns the registered builtin names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// interceptedArity is the argument count of each intercepted name.
var interceptedArity = map[string]int{
	"play":       1,
	"loop":       1,
	"play_speed": 2,
	"loop_speed": 2,
	"stop":       0,
	"add_frame":  2,
}

// IsBuiltin reports whether name is a callable builtin.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// CheckArity returns the ArgumentError a call of name with n arguments
// raises, or nil if the count is accepted or name is not a builtin.
func CheckArity(name string, n int) error {
	if want, ok := interceptedArity[name]; ok {
		if n != want {
			return argErrorf("%s expects %d %s, got %d", name, want, plural(want, "argument"), n)
		}
		return nil
	}
	if b, ok := builtins[name]; ok {
		return b.checkArity(n)
	}
	return nil
}

func inert(*Interpreter, []value.Value) (value.Value, error) {
	return value.False, nil
}

// ----------------------------------------------------------------------------
// Argument helpers

func numArg(fn string, args []value.Value, i int) (float64, error) {
	n, err := value.ToNumber(args[i])
	if err != nil {
		return 0, typeErrorf("%s argument %d: %v", fn, i+1, err)
	}
	return n, nil
}

// maxInt bounds every number converted to a size, count, coordinate or
// idle threshold.
const maxInt = math.MaxInt32

// intArg converts argument i to an integer, truncating toward zero.
func intArg(fn string, args []value.Value, i int) (int, error) {
	n, err := numArg(fn, args, i)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, argErrorf("%s argument %d: %v is not a finite number", fn, i+1, n)
	}
	if math.Abs(n) > maxInt {
		return 0, argErrorf("%s argument %d: %s is out of range", fn, i+1, value.FormatNumber(n))
	}
	return int(n), nil
}

func frameArg(fn string, args []value.Value, i int) (*frame.Frame, error) {
	f, ok := args[i].(value.Frame)
	if !ok {
		return nil, typeErrorf("%s argument %d must be a frame, got %s", fn, i+1, value.TypeName(args[i]))
	}
	return f.F, nil
}

func framesArg(fn string, args []value.Value, i int) (value.Frames, error) {
	fs, ok := args[i].(value.Frames)
	if !ok {
		return nil, typeErrorf("%s argument %d must be frames, got %s", fn, i+1, value.TypeName(args[i]))
	}
	return fs, nil
}

// ----------------------------------------------------------------------------
// Math

func math1(f func(float64) float64) func(*Interpreter, []value.Value) (value.Value, error) {
	return func(in *Interpreter, args []value.Value) (value.Value, error) {
		n, err := value.ToNumber(args[0])
		if err != nil {
			return nil, typeErrorf("%v", err)
		}
		return value.Number(f(n)), nil
	}
}

func biAtan2(in *Interpreter, args []value.Value) (value.Value, error) {
	y, err := numArg("atan2", args, 0)
	if err != nil {
		return nil, err
	}
	x, err := numArg("atan2", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Number(math.Atan2(y, x)), nil
}

func biSqrt(in *Interpreter, args []value.Value) (value.Value, error) {
	n, err := numArg("sqrt", args, 0)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, argErrorf("sqrt of negative number %s", value.FormatNumber(n))
	}
	return value.Number(math.Sqrt(n)), nil
}

func biRandom(in *Interpreter, args []value.Value) (value.Value, error) {
	return value.Number(in.rng.Float64()), nil
}

func biMin(in *Interpreter, args []value.Value) (value.Value, error) {
	return fold("min", args, math.Min)
}

func biMax(in *Interpreter, args []value.Value) (value.Value, error) {
	return fold("max", args, math.Max)
}

func fold(fn string, args []value.Value, f func(a, b float64) float64) (value.Value, error) {
	acc, err := numArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		n, err := numArg(fn, args, i)
		if err != nil {
			return nil, err
		}
		acc = f(acc, n)
	}
	return value.Number(acc), nil
}

// ----------------------------------------------------------------------------
// Frames

func biLen(in *Interpreter, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Frames:
		return value.Number(len(v)), nil
	case value.Frame:
		return value.Number(v.F.Height()), nil
	case value.String:
		return value.Number(utf8.RuneCountInString(string(v))), nil
	}
	return nil, typeErrorf("len of %s", value.TypeName(args[0]))
}

// pixelArgs decodes the (frame, row, col) prefix shared by pixel builtins.
func pixelArgs(fn string, args []value.Value) (*frame.Frame, int, int, error) {
	f, err := frameArg(fn, args, 0)
	if err != nil {
		return nil, 0, 0, err
	}
	row, err := intArg(fn, args, 1)
	if err != nil {
		return nil, 0, 0, err
	}
	col, err := intArg(fn, args, 2)
	if err != nil {
		return nil, 0, 0, err
	}
	return f, row, col, nil
}

func biCountNeighbors(in *Interpreter, args []value.Value) (value.Value, error) {
	f, row, col, err := pixelArgs("count_neighbors", args)
	if err != nil {
		return nil, err
	}
	n, err := f.CountNeighbors(row, col)
	if err != nil {
		return nil, fromFrame(err)
	}
	return value.Number(n), nil
}

func biGetPixel(in *Interpreter, args []value.Value) (value.Value, error) {
	f, row, col, err := pixelArgs("get_pixel", args)
	if err != nil {
		return nil, err
	}
	on, err := f.Get(row, col)
	if err != nil {
		return nil, fromFrame(err)
	}
	if on {
		return value.Number(1), nil
	}
	return value.Number(0), nil
}

func biSetPixel(in *Interpreter, args []value.Value) (value.Value, error) {
	f, row, col, err := pixelArgs("set_pixel", args)
	if err != nil {
		return nil, err
	}
	out := f.Clone()
	if err := out.Set(row, col, value.Truthy(args[3])); err != nil {
		return nil, fromFrame(err)
	}
	return value.NewFrame(out), nil
}

func biFlip(in *Interpreter, args []value.Value) (value.Value, error) {
	f, err := frameArg("flip", args, 0)
	if err != nil {
		return nil, err
	}
	out := f.Clone()
	out.Flip()
	return value.NewFrame(out), nil
}

func biRotate(in *Interpreter, args []value.Value) (value.Value, error) {
	f, err := frameArg("rotate", args, 0)
	if err != nil {
		return nil, err
	}
	return value.NewFrame(f.Rotate90()), nil
}

// biPlaceSprite handles place_sprite(dest, sprite, x, y), which draws onto
// a copy of dest, and place_sprite(sprite, x, y), which draws onto a blank
// canvas.
func biPlaceSprite(in *Interpreter, args []value.Value) (value.Value, error) {
	var dest *frame.Frame
	if len(args) == 4 {
		d, err := frameArg("place_sprite", args, 0)
		if err != nil {
			return nil, err
		}
		dest = d.Clone()
		args = args[1:]
	} else {
		dest = frame.Blank(CanvasSize, CanvasSize)
	}

	sprite, err := frameArg("place_sprite", args, 0)
	if err != nil {
		return nil, err
	}
	x, err := intArg("place_sprite", args, 1)
	if err != nil {
		return nil, err
	}
	y, err := intArg("place_sprite", args, 2)
	if err != nil {
		return nil, err
	}
	dest.PlaceSprite(sprite, x, y)
	return value.NewFrame(dest), nil
}

func biCreateFrame(in *Interpreter, args []value.Value) (value.Value, error) {
	w, err := intArg("create_frame", args, 0)
	if err != nil {
		return nil, err
	}
	h, err := intArg("create_frame", args, 1)
	if err != nil {
		return nil, err
	}
	if w < 0 || h < 0 {
		return nil, argErrorf("create_frame size %dx%d is negative", w, h)
	}
	return value.NewFrame(frame.Blank(w, h)), nil
}

func biLastFrame(in *Interpreter, args []value.Value) (value.Value, error) {
	fs, err := framesArg("last_frame", args, 0)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, errorf(RuntimeError, "last_frame of empty frames")
	}
	return value.NewFrame(fs[len(fs)-1]), nil
}

func biPrint(in *Interpreter, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Format(a)
	}
	fmt.Fprintln(in.out, strings.Join(parts, " "))
	return value.False, nil
}
