package interp

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

func newTestInterp(opts ...Option) *Interpreter {
	base := []Option{WithOutput(io.Discard), WithClock(0), WithSeed(1)}
	return New(append(base, opts...)...)
}

func execute(in *Interpreter, src string) error {
	prog, err := syntax.ParseString(src)
	if err != nil {
		return err
	}
	return in.Execute(prog)
}

// run executes src in a fresh interpreter and fails the test on error.
func run(t *testing.T, src string, opts ...Option) *Interpreter {
	t.Helper()
	in := newTestInterp(opts...)
	if err := execute(in, src); err != nil {
		t.Fatalf("Execute(%q) error: %v", src, err)
	}
	return in
}

func global(t *testing.T, in *Interpreter, name string) value.Value {
	t.Helper()
	v, ok := in.Global(name)
	if !ok {
		t.Fatalf("global %s is not bound", name)
	}
	return v
}

func globalFrame(t *testing.T, in *Interpreter, name string) *frame.Frame {
	t.Helper()
	v := global(t, in, name)
	f, ok := v.(value.Frame)
	if !ok {
		t.Fatalf("global %s is %s, want frame", name, value.TypeName(v))
	}
	return f.F
}

func assertFrame(t *testing.T, got *frame.Frame, art string) {
	t.Helper()
	want := frame.MustParse(art)
	if !got.Equal(want) {
		t.Errorf("frame =\n%swant\n%s", got, want)
	}
}

func assertNumber(t *testing.T, in *Interpreter, name string, want float64) {
	t.Helper()
	v := global(t, in, name)
	if !value.Equal(v, value.Number(want)) {
		t.Errorf("%s = %s, want %s", name, value.Format(v), value.FormatNumber(want))
	}
}

func TestPatternDiagonal(t *testing.T) {
	in := run(t, "frame d = pattern(3, 3) {\n  return row == col\n}")
	assertFrame(t, globalFrame(t, in, "d"), "#..\n.#.\n..#")
}

func TestPatternPixelValue(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"return", "return col == 1", ".#\n.#"},
		{"trailing_expr", "row", "..\n##"},
		{"first_return_wins", "return row == 0\nreturn true", "##\n.."},
		{"return_in_if", "if col == 0 then\n  return true\nend\nfalse", "#.\n#."},
		{"no_value", "num x = 1", "..\n.."},
		{"empty", "", "..\n.."},
		{"number_truthy", "return row + col", ".#\n##"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := run(t, "frame f = pattern(2, 2) {\n"+tt.body+"\n}")
			assertFrame(t, globalFrame(t, in, "f"), tt.want)
		})
	}
}

func TestPatternPixelIsolation(t *testing.T) {
	src := `num x = 5
frame f = pattern(2, 2) {
  x = x + 1
  num y = row
  return x == 6
}`
	in := run(t, src)
	assertFrame(t, globalFrame(t, in, "f"), "##\n##")
	assertNumber(t, in, "x", 5)
	if _, ok := in.Global("y"); ok {
		t.Error("pixel-local y leaked into the global scope")
	}
	if _, ok := in.Global("row"); ok {
		t.Error("row leaked into the global scope")
	}
	if got := in.env.depth(); got != 1 {
		t.Errorf("scope depth after generator = %d, want 1", got)
	}
}

func TestPatternZeroSize(t *testing.T) {
	in := run(t, "frame f = pattern(0, 3) { true }")
	f := globalFrame(t, in, "f")
	if f.Width() != 0 || f.Height() != 3 {
		t.Errorf("size = %dx%d, want 0x3", f.Width(), f.Height())
	}
}

func TestPatternSizeTruncates(t *testing.T) {
	in := run(t, "frame f = pattern(2.9, 1.2) { true }")
	assertFrame(t, globalFrame(t, in, "f"), "##")
}

func TestAnimateBindsClock(t *testing.T) {
	in := run(t, "frame f = animate(2, 1) using t {\n  return t == 1500\n}", WithClock(1500))
	assertFrame(t, globalFrame(t, in, "f"), "##")
}

func TestEvolveBlinker(t *testing.T) {
	src := `frame g = [[0, 1, 0], [0, 1, 0], [0, 1, 0]]
frame next = evolve(3, 3) from g {
  num n = count_neighbors(g, row, col)
  num alive = get_pixel(g, row, col)
  return n == 3 or (alive == 1 and n == 2)
}`
	in := run(t, src)
	assertFrame(t, globalFrame(t, in, "next"), "...\n###\n...")
	assertFrame(t, globalFrame(t, in, "g"), ".#.\n.#.\n.#.")
}

func TestRotateFourTimes(t *testing.T) {
	src := `frame f = [[1, 1, 0], [0, 0, 1]]
frame once = rotate(f)
frame back = rotate(rotate(rotate(rotate(f))))`
	in := run(t, src)
	assertFrame(t, globalFrame(t, in, "once"), ".#\n.#\n#.")
	if !globalFrame(t, in, "back").Equal(globalFrame(t, in, "f")) {
		t.Error("four rotations did not restore the frame")
	}
}

func TestCountNeighbors(t *testing.T) {
	src := `frame f = [[1, 1, 1], [1, 0, 1], [1, 1, 1]]
num center = count_neighbors(f, 1, 1)
num corner = count_neighbors(f, 0, 0)
num edge = count_neighbors(f, 0, 1)`
	in := run(t, src)
	assertNumber(t, in, "center", 8)
	assertNumber(t, in, "corner", 2)
	assertNumber(t, in, "edge", 4)
}

func TestArrayLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind value.Kind
		art  string // for frames
		n    int    // for frames sequences
	}{
		{"empty", "[]", value.FramesKind, "", 0},
		{"row", "[1, 0, 1]", value.FrameKind, "#.#", 0},
		{"rows", "[[1, 0], [0, 1]]", value.FrameKind, "#.\n.#", 0},
		{"truthy_numbers", "[2, 0, -1]", value.FrameKind, "#.#", 0},
		{"named_frames", "frame a = [1]\nframe b = [0]\n[a, b]", value.FramesKind, "", 2},
		{"generated", "[pattern(1, 1) { 1 }, pattern(1, 1) { 0 }]", value.FramesKind, "", 2},
		{"multi_row_literals", "[[[1], [0]], [[0], [1]]]", value.FramesKind, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestInterp()
			v, err := in.Eval(tt.src)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Fatalf("kind = %v, want %v", v.Kind(), tt.kind)
			}
			switch v := v.(type) {
			case value.Frame:
				assertFrame(t, v.F, tt.art)
			case value.Frames:
				if len(v) != tt.n {
					t.Errorf("len = %d, want %d", len(v), tt.n)
				}
			}
		})
	}
}

func TestIndex(t *testing.T) {
	src := `frame f = [[1, 0], [0, 1]]
frames s = [f, rotate(f)]
frame r = f[1]
frame t = f[1.7]
frame second = s[1]`
	in := run(t, src)
	assertFrame(t, globalFrame(t, in, "r"), ".#")
	assertFrame(t, globalFrame(t, in, "t"), ".#")
	assertFrame(t, globalFrame(t, in, "second"), ".#\n#.")
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ErrorKind
	}{
		{"frames_index_past_end", "frames fs = []\nadd_frame(fs, create_frame(1, 1))\nfs[5]", IndexError},
		{"frame_index_negative", "frame f = [1, 0]\nf[-1]", IndexError},
		{"index_number", "num n = 3\nn[0]", TypeError},
		{"div_zero", "num a = 1 / 0", DivisionByZero},
		{"rem_zero", "5 % 0", DivisionByZero},
		{"assign_unbound", "x = 1", UndefinedVariable},
		{"read_unbound", "y + 1", UndefinedVariable},
		{"unknown_function", "foo()", UndefinedFunction},
		{"call_non_name", "(sqrt)(4)", TypeError},
		{"sqrt_negative", "sqrt(-1)", ArgumentError},
		{"too_few_args", "sqrt()", ArgumentError},
		{"too_many_args", "flip(create_frame(1, 1), 2)", ArgumentError},
		{"num_from_text", `num n = "abc"`, TypeError},
		{"num_from_padded_text", `num n = " 5"`, TypeError},
		{"text_from_number", "text s = 1", TypeError},
		{"frame_from_number", "frame f = 1", TypeError},
		{"frames_from_text", `frames f = "x"`, TypeError},
		{"mixed_array", "[1, [0]]", TypeError},
		{"text_array", `["a"]`, TypeError},
		{"ragged_rows", "[[1, 0], [1]]", InvalidFrame},
		{"add_text", `1 + "x"`, TypeError},
		{"last_frame_empty", "last_frame([])", RuntimeError},
		{"create_frame_negative", "create_frame(-1, 2)", ArgumentError},
		{"get_pixel_outside", "get_pixel(create_frame(2, 2), 5, 0)", IndexError},
		{"set_pixel_outside", "set_pixel(create_frame(2, 2), 0, 2, 1)", IndexError},
		{"neighbors_outside", "count_neighbors(create_frame(2, 2), -1, 0)", IndexError},
		{"play_number", "play(1)", TypeError},
		{"play_arity", "play()", ArgumentError},
		{"stop_arity", "stop(1)", ArgumentError},
		{"add_frame_to_number", "num a = 1\nadd_frame(a, create_frame(1, 1))", TypeError},
		{"add_frame_number", "frames a = []\nadd_frame(a, 3)", TypeError},
		{"pattern_negative", "pattern(-1, 2) { 1 }", RuntimeError},
		{"pattern_text_size", `pattern("w", 2) { 1 }`, TypeError},
		{"evolve_unbound", "evolve(2, 2) from nope { 1 }", RuntimeError},
		{"evolve_number", "num g = 1\nevolve(2, 2) from g { 1 }", RuntimeError},
		{"error_in_pixel", "pattern(2, 2) { return 1 / (row - 1) }", DivisionByZero},
		{"idle_text", `when idle > "soon" do stop() end`, TypeError},
		{"idle_huge", "when idle > 100000000000000000000 do\nend", RuntimeError},
		{"idle_nan", "when idle > (0 - 1) ^ 0.5 do\nend", RuntimeError},
		{"pattern_huge", "pattern(100000000000000000000, 2) { 1 }", RuntimeError},
		{"pattern_inf", "pattern(10 ^ 400, 2) { 1 }", RuntimeError},
		{"create_frame_huge", "create_frame(100000000000000000000, 2)", ArgumentError},
		{"get_pixel_huge", "get_pixel(create_frame(2, 2), 0 - 100000000000000000000, 0)", ArgumentError},
		{"repeat_huge", "repeat 100000000000000000000 times do\nend", RuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(newTestInterp(), tt.src)
			if err == nil {
				t.Fatal("Execute succeeded, want error")
			}
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("error %v is not a runtime error", err)
			}
			if kind != tt.want {
				t.Errorf("kind = %v, want %v (%v)", kind, tt.want, err)
			}
		})
	}
}

func TestRuntimeErrorPosition(t *testing.T) {
	err := execute(newTestInterp(), "num x = 1\nx = x + y")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if e.Pos.Line() != 2 || e.Pos.Col() != 9 {
		t.Errorf("position = %d:%d, want 2:9", e.Pos.Line(), e.Pos.Col())
	}
	if e.Name != "y" {
		t.Errorf("name = %q, want y", e.Name)
	}
}

func TestErrorStopsExecution(t *testing.T) {
	in := newTestInterp()
	err := execute(in, "num a = 1\nnum b = 1 / 0\nnum c = 3")
	if err == nil {
		t.Fatal("Execute succeeded, want error")
	}
	if _, ok := in.Global("a"); !ok {
		t.Error("state before the failing statement was lost")
	}
	if _, ok := in.Global("c"); ok {
		t.Error("statement after the error ran")
	}
}

func TestGeneratorErrorRestoresScope(t *testing.T) {
	in := newTestInterp()
	if err := execute(in, "pattern(2, 2) { return nope }"); err == nil {
		t.Fatal("Execute succeeded, want error")
	}
	if got := in.env.depth(); got != 1 {
		t.Errorf("scope depth = %d, want 1", got)
	}
	if in.cur != globalScope {
		t.Errorf("active scope = %d, want global", in.cur)
	}
}

func TestHints(t *testing.T) {
	tests := []struct {
		name string
		src  string
		hint string
	}{
		{"variable", "num counter = 1\ncountr + 1", "counter"},
		{"function", "sqt(4)", "sqrt"},
		{"typo", "num speed = 1\nsped = 2", "speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(newTestInterp(), tt.src)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if e.Hint != tt.hint {
				t.Errorf("hint = %q, want %q", e.Hint, tt.hint)
			}
			if !strings.Contains(e.Error(), "did you mean "+tt.hint+"?") {
				t.Errorf("message %q lacks the hint", e.Error())
			}
		})
	}
}

func TestNonFiniteEquality(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"infinity", "num big = 10 ^ 400\nnum r = big == big", 1},
		{"infinity_not_finite", "num big = 10 ^ 400\nnum r = big == 1", 0},
		{"opposite_infinities", "num big = 10 ^ 400\nnum r = big == 0 - big", 0},
		{"nan", "num nan = (0 - 1) ^ 0.5\nnum r = nan == nan", 1},
		{"nan_differs", "num nan = (0 - 1) ^ 0.5\nnum r = nan != 0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := run(t, tt.src)
			assertNumber(t, in, "r", tt.want)
		})
	}
}

func TestPlaySpeedClamps(t *testing.T) {
	tests := []struct {
		speed string
		want  int64
	}{
		{"0", frame.MinDuration},
		{"-50", frame.MinDuration},
		{"250", 250},
		{"20000", frame.MaxDuration},
		{"100000000000000000000", frame.MaxDuration},
		{"10 ^ 400", frame.MaxDuration},
		{"(0 - 1) ^ 0.5", frame.MinDuration},
	}

	for _, tt := range tests {
		t.Run(tt.speed, func(t *testing.T) {
			in := run(t, "frame f = [1]\nplay_speed(f, "+tt.speed+")")
			if got := in.FrameDurationMs(); got != tt.want {
				t.Errorf("duration = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefaultDuration(t *testing.T) {
	in := run(t, "play([1])")
	if got := in.FrameDurationMs(); got != frame.DefaultDuration {
		t.Errorf("duration = %d, want %d", got, frame.DefaultDuration)
	}
}

func TestLoopPlayback(t *testing.T) {
	src := `frame a = [1, 0]
frame b = [0, 1]
frames s = [a, b]
loop(s)`
	in := run(t, src)
	if !in.Playing() {
		t.Fatal("loop did not start playback")
	}

	steps := []struct {
		delta int64
		want  string
	}{
		{50, "#."},
		{50, ".#"},
		{99, ".#"},
		{1, "#."},
		{100, ".#"},
	}
	for i, st := range steps {
		f, ok := in.Update(st.delta)
		if !ok {
			t.Fatalf("step %d: no frame", i)
		}
		if !f.Equal(frame.MustParse(st.want)) {
			t.Errorf("step %d: frame = %q, want %q", i, strings.TrimSpace(f.String()), st.want)
		}
	}
}

func TestPlayStopsOnLastFrame(t *testing.T) {
	in := run(t, "play_speed([pattern(1, 1) { 1 }, pattern(1, 1) { 0 }], 10)")
	for i := 0; i < 5; i++ {
		in.Update(10)
	}
	f, ok := in.CurrentFrame()
	if !ok || f.Lit() != 0 {
		t.Errorf("current frame = %v, want the last (blank) frame", f)
	}
	if !in.Animation().Finished() {
		t.Error("animation not finished")
	}
}

func TestStop(t *testing.T) {
	in := run(t, "play([1])\nstop()")
	if in.Playing() {
		t.Error("still playing after stop")
	}
	if got := len(in.AnimationFrames()); got != 1 {
		t.Errorf("output frames = %d, want 1", got)
	}
}

func TestAddFrame(t *testing.T) {
	src := `frames all = []
add_frame(all, pattern(1, 1) { 1 })
add_frame(all, pattern(1, 1) { 0 })
num n = len(all)`
	in := run(t, src)
	assertNumber(t, in, "n", 2)
}

func TestAddFrameDoesNotAlias(t *testing.T) {
	src := `frames a = []
add_frame(a, create_frame(1, 1))
frames b = a
add_frame(b, create_frame(2, 2))`
	in := run(t, src)
	if got := len(global(t, in, "a").(value.Frames)); got != 1 {
		t.Errorf("len(a) = %d, want 1", got)
	}
	if got := len(global(t, in, "b").(value.Frames)); got != 2 {
		t.Errorf("len(b) = %d, want 2", got)
	}
}

func TestAddFrameDefinesUnbound(t *testing.T) {
	in := run(t, "add_frame(fresh, [1])")
	fs, ok := global(t, in, "fresh").(value.Frames)
	if !ok || len(fs) != 1 {
		t.Errorf("fresh = %v, want frames of length 1", global(t, in, "fresh"))
	}
}

func TestAddFrameInRepeat(t *testing.T) {
	src := `frames film = []
repeat 4 times do
  add_frame(film, pattern(4, 1) {
    return col == time
  })
end
loop(film)`
	in := run(t, src)
	film := global(t, in, "film").(value.Frames)
	if len(film) != 4 {
		t.Fatalf("len(film) = %d, want 4", len(film))
	}
	assertFrame(t, film[2], "..#.")
	if got := len(in.AnimationFrames()); got != 4 {
		t.Errorf("animation frames = %d, want 4", got)
	}
}

func TestClickCounter(t *testing.T) {
	src := `num clicks = 0
when clicked do
  clicks = clicks + 1
end`
	in := run(t, src)
	assertNumber(t, in, "clicks", 0)
	if !in.HasClickHandler() {
		t.Fatal("clicked handler not registered")
	}
	for i := 0; i < 2; i++ {
		if err := in.HandleClickEvent(); err != nil {
			t.Fatalf("HandleClickEvent error: %v", err)
		}
	}
	assertNumber(t, in, "clicks", 2)
}

func TestHandlersRunInGlobalScope(t *testing.T) {
	in := run(t, "when clicked do\n  num z = 1\nend")
	if err := in.HandleClickEvent(); err != nil {
		t.Fatal(err)
	}
	assertNumber(t, in, "z", 1)
}

func TestHandlerReplaced(t *testing.T) {
	src := `text last = ""
when clicked do last = "first" end
when clicked do last = "second" end`
	in := run(t, src)
	if err := in.HandleClickEvent(); err != nil {
		t.Fatal(err)
	}
	if got := global(t, in, "last"); !value.Equal(got, value.String("second")) {
		t.Errorf("last = %v, want second", got)
	}
}

func TestIdleHandlers(t *testing.T) {
	src := `num fired = 0
when idle > 5000 do fired = fired + 10 end
when idle > 100 do fired = fired + 1 end`
	in := run(t, src)

	if got, want := in.IdleThresholds(), []int64{100, 5000}; !reflect.DeepEqual(got, want) {
		t.Errorf("IdleThresholds = %v, want %v", got, want)
	}
	if err := in.HandleIdleEvent(100); err != nil {
		t.Fatal(err)
	}
	if err := in.HandleIdleEvent(250); err != nil {
		t.Fatal(err)
	}
	assertNumber(t, in, "fired", 1)
	if err := in.HandleIdleEvent(5000); err != nil {
		t.Fatal(err)
	}
	assertNumber(t, in, "fired", 11)
}

func TestMissingHandlerIsNoop(t *testing.T) {
	in := newTestInterp()
	if err := in.HandleClickEvent(); err != nil {
		t.Errorf("HandleClickEvent error: %v", err)
	}
	if err := in.HandleIdleEvent(10); err != nil {
		t.Errorf("HandleIdleEvent error: %v", err)
	}
}

func TestHandlerError(t *testing.T) {
	in := run(t, "when clicked do\n  num q = 1 / 0\nend")
	err := in.HandleClickEvent()
	if kind, _ := KindOf(err); kind != DivisionByZero {
		t.Errorf("HandleClickEvent error = %v, want division by zero", err)
	}
}

func TestRepeat(t *testing.T) {
	tests := []struct {
		name  string
		count string
		want  float64
	}{
		{"sum_of_indices", "4", 6},
		{"zero", "0", 0},
		{"negative", "-2", 0},
		{"fraction", "3.9", 3},
		{"nan", "(0 - 1) ^ 0.5", 0},
		{"negative_infinity", "0 - 10 ^ 400", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := run(t, "num s = 0\nrepeat "+tt.count+" times do\n  s = s + time\nend")
			assertNumber(t, in, "s", tt.want)
		})
	}
}

func TestIfChain(t *testing.T) {
	tests := []struct {
		x    string
		want string
	}{
		{"1", "one"},
		{"2", "two"},
		{"7", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			src := "num x = " + tt.x + "\ntext s = \"\"\n" +
				"if x == 1 then s = \"one\" elsif x == 2 then s = \"two\" else s = \"many\" end"
			in := run(t, src)
			if got := global(t, in, "s"); !value.Equal(got, value.String(tt.want)) {
				t.Errorf("s = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestTopLevelReturn(t *testing.T) {
	in := run(t, "num a = 1\nreturn 0\na = 2")
	assertNumber(t, in, "a", 1)
}

func TestEval(t *testing.T) {
	in := newTestInterp(WithClock(42))
	tests := []struct {
		src  string
		want value.Value
	}{
		{"1 + 2", value.Number(3)},
		{"num x = 4", nil},
		{"x * 2", value.Number(8)},
		{"2 ^ 3 ^ 2", value.Number(512)},
		{"-2 ^ 2", value.Number(4)},
		{"7 % 3", value.Number(1)},
		{"1 < 2 ? \"yes\" : \"no\"", value.String("yes")},
		{"1 and 2", value.True},
		{"0 or \"\"", value.False},
		{"false and nope()", value.False},
		{"true or nope()", value.True},
		{"not 0", value.True},
		{"\"5\" + 1", value.Number(6)},
		{"1 == true", value.False},
		{"0.1 + 0.2 == 0.3", value.True},
		{"time", value.Number(42)},
		{"len(\"hello\")", value.Number(5)},
		{"min(3, 1, 2) + max(4, 9)", value.Number(10)},
		{"floor(2.7) + ceil(0.2) + abs(-3)", value.Number(6)},
		{"return 5\n6", value.Number(5)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := in.Eval(tt.src)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("Eval = %v, want nothing", got)
				}
				return
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("Eval = %s, want %s", value.Format(got), value.Format(tt.want))
			}
		})
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	run(t, `print("x", 1.5, 2, true, [1, 0], [])`, WithOutput(&buf))
	if got, want := buf.String(), "x 1.5 2 true <frame 2x1> <frames len=0>\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRandomSeeded(t *testing.T) {
	a := newTestInterp(WithSeed(7))
	b := newTestInterp(WithSeed(7))
	for i := 0; i < 5; i++ {
		x, err := a.Eval("random()")
		if err != nil {
			t.Fatal(err)
		}
		y, _ := b.Eval("random()")
		if !value.Equal(x, y) {
			t.Fatalf("draw %d: %v != %v with the same seed", i, x, y)
		}
		n := float64(x.(value.Number))
		if n < 0 || n >= 1 {
			t.Errorf("random() = %v, want [0, 1)", n)
		}
	}
}

func TestBooleansPredefined(t *testing.T) {
	in := newTestInterp()
	want := []string{"false", "true"}
	if got := in.Globals(); !reflect.DeepEqual(got, want) {
		t.Errorf("Globals = %v, want %v", got, want)
	}
}

func TestUpdateAdvancesClock(t *testing.T) {
	in := newTestInterp(WithClock(1000))
	if _, ok := in.Update(250); ok {
		t.Error("Update returned a frame with no output")
	}
	if got := in.Clock(); got != 1250 {
		t.Errorf("Clock = %d, want 1250", got)
	}
}
