package interp

import (
	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// interceptedNames are call names the interpreter implements itself
// because they change interpreter state.
var interceptedNames = []string{"play", "loop", "play_speed", "loop_speed", "stop", "add_frame"}

func (in *Interpreter) evalCall(e *syntax.CallExpr) (value.Value, error) {
	name, ok := e.Fun.(*syntax.Name)
	if !ok {
		return nil, at(typeErrorf("cannot call %s", syntax.ExprString(e.Fun)), e.Pos())
	}

	switch name.Value {
	case "play", "loop":
		return in.callPlay(e, name.Value == "loop", false)
	case "play_speed", "loop_speed":
		return in.callPlay(e, name.Value == "loop_speed", true)
	case "stop":
		return in.callStop(e)
	case "add_frame":
		return in.callAddFrame(e)
	}

	b, ok := builtins[name.Value]
	if !ok {
		return nil, &Error{
			Kind: UndefinedFunction,
			Name: name.Value,
			Pos:  name.Pos(),
			Hint: Suggest(name.Value, BuiltinNames()),
		}
	}

	args, err := in.evalArgs(e.Args)
	if err != nil {
		return nil, err
	}
	if err := b.checkArity(len(args)); err != nil {
		return nil, at(err, e.Pos())
	}
	v, err := b.fn(in, args)
	if err != nil {
		return nil, at(err, e.Pos())
	}
	return v, nil
}

func (in *Interpreter) evalArgs(list []syntax.Expr) ([]value.Value, error) {
	args := make([]value.Value, len(list))
	for i, a := range list {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func wantArgs(e *syntax.CallExpr, name string, n int) error {
	if len(e.Args) != n {
		return at(argErrorf("%s expects %d %s, got %d", name, n, plural(n, "argument"), len(e.Args)), e.Pos())
	}
	return nil
}

// callPlay starts playback of a frame or frames. With speed set, the
// second argument replaces the frame duration first.
func (in *Interpreter) callPlay(e *syntax.CallExpr, loop, speed bool) (value.Value, error) {
	fn := syntax.ExprString(e.Fun)
	nargs := 1
	if speed {
		nargs = 2
	}
	if err := wantArgs(e, fn, nargs); err != nil {
		return nil, err
	}

	args, err := in.evalArgs(e.Args)
	if err != nil {
		return nil, err
	}

	var frames []*frame.Frame
	switch v := args[0].(type) {
	case value.Frame:
		frames = []*frame.Frame{v.F}
	case value.Frames:
		frames = append([]*frame.Frame(nil), v...)
	default:
		return nil, at(typeErrorf("%s needs a frame or frames, got %s", fn, value.TypeName(v)), e.Args[0].Pos())
	}

	if speed {
		ms, err := value.ToNumber(args[1])
		if err != nil {
			return nil, at(typeErrorf("%s speed: %v", fn, err), e.Args[1].Pos())
		}
		in.duration = frame.DurationFromMs(ms)
	}

	in.output = frames
	in.anim = frame.NewAnimation(frames, loop, in.duration, in.clock)
	in.log.Debug("playback started", "call", fn, "frames", len(frames), "loop", loop, "duration_ms", in.duration)
	return value.False, nil
}

func (in *Interpreter) callStop(e *syntax.CallExpr) (value.Value, error) {
	if err := wantArgs(e, "stop", 0); err != nil {
		return nil, err
	}
	if in.anim != nil {
		in.log.Debug("playback stopped", "index", in.anim.Index())
	}
	in.anim = nil
	return value.False, nil
}

// callAddFrame appends a frame to a frames value. When the first argument
// names a variable, the variable is updated: a frames binding gets the
// longer sequence and an unbound name is defined in the active scope.
func (in *Interpreter) callAddFrame(e *syntax.CallExpr) (value.Value, error) {
	if err := wantArgs(e, "add_frame", 2); err != nil {
		return nil, err
	}

	fv, err := in.eval(e.Args[1])
	if err != nil {
		return nil, err
	}
	f, ok := fv.(value.Frame)
	if !ok {
		return nil, at(typeErrorf("add_frame argument 2 must be a frame, got %s", value.TypeName(fv)), e.Args[1].Pos())
	}

	name, isName := e.Args[0].(*syntax.Name)
	if !isName {
		v, err := in.eval(e.Args[0])
		if err != nil {
			return nil, err
		}
		seq, ok := v.(value.Frames)
		if !ok {
			return nil, at(typeErrorf("add_frame argument 1 must be frames, got %s", value.TypeName(v)), e.Args[0].Pos())
		}
		return appendFrame(seq, f.F), nil
	}

	v, _, bound := in.env.lookup(in.cur, name.Value)
	if !bound {
		seq := value.Frames{f.F}
		in.env.define(in.cur, name.Value, seq)
		return seq, nil
	}
	seq, ok := v.(value.Frames)
	if !ok {
		return nil, at(typeErrorf("add_frame: %s is %s, not frames", name.Value, value.TypeName(v)), name.Pos())
	}
	seq = appendFrame(seq, f.F)
	in.env.assign(in.cur, name.Value, seq)
	return seq, nil
}

// appendFrame returns seq with f added, never sharing seq's storage.
func appendFrame(seq value.Frames, f *frame.Frame) value.Frames {
	out := make(value.Frames, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, f)
}
