package interp

import (
	"math"

	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// outcome is the result of executing statements: either control falls
// through, or a return produced a value.
type outcome struct {
	returned bool
	value    value.Value
}

var normal = outcome{}

func returned(v value.Value) outcome {
	return outcome{returned: true, value: v}
}

// execStmts runs list in the active scope until one returns or fails.
func (in *Interpreter) execStmts(list []syntax.Stmt) (outcome, error) {
	for _, s := range list {
		o, err := in.exec(s)
		if err != nil || o.returned {
			return o, err
		}
	}
	return normal, nil
}

func (in *Interpreter) exec(s syntax.Stmt) (outcome, error) {
	switch s := s.(type) {
	case *syntax.DeclStmt:
		return normal, in.execDecl(s)

	case *syntax.AssignStmt:
		v, err := in.eval(s.Value)
		if err != nil {
			return normal, err
		}
		if !in.env.assign(in.cur, s.Name.Value, v) {
			return normal, in.undefinedVariable(s.Name)
		}
		return normal, nil

	case *syntax.ExprStmt:
		_, err := in.eval(s.X)
		return normal, err

	case *syntax.BlockStmt:
		return in.execStmts(s.Stmts)

	case *syntax.IfStmt:
		return in.execIf(s)

	case *syntax.RepeatStmt:
		return in.execRepeat(s)

	case *syntax.WhenStmt:
		return normal, in.execWhen(s)

	case *syntax.ReturnStmt:
		v, err := in.eval(s.Result)
		if err != nil {
			return normal, err
		}
		return returned(v), nil
	}
	return normal, at(errorf(RuntimeError, "unexpected statement %T", s), s.Pos())
}

// execDecl evaluates the initializer, checks it against the declared type
// and defines the name in the active scope.
func (in *Interpreter) execDecl(s *syntax.DeclStmt) error {
	v, err := in.eval(s.Value)
	if err != nil {
		return err
	}

	switch s.Type {
	case syntax.KwNum:
		n, err := value.ToNumber(v)
		if err != nil {
			return at(typeErrorf("num %s: %v", s.Name.Value, err), s.Value.Pos())
		}
		v = value.Number(n)
	case syntax.KwText:
		if _, ok := v.(value.String); !ok {
			return in.declMismatch(s, v)
		}
	case syntax.KwFrame:
		if _, ok := v.(value.Frame); !ok {
			return in.declMismatch(s, v)
		}
	case syntax.KwFrames:
		switch x := v.(type) {
		case value.Frames:
		case value.Frame:
			v = value.Frames{x.F}
		default:
			return in.declMismatch(s, v)
		}
	}

	in.env.define(in.cur, s.Name.Value, v)
	return nil
}

func (in *Interpreter) declMismatch(s *syntax.DeclStmt, v value.Value) error {
	return at(typeErrorf("cannot declare %s %s with a %s value", s.Type, s.Name.Value, value.TypeName(v)), s.Value.Pos())
}

func (in *Interpreter) execIf(s *syntax.IfStmt) (outcome, error) {
	c, err := in.eval(s.Cond)
	if err != nil {
		return normal, err
	}
	if value.Truthy(c) {
		return in.execStmts(s.Then.Stmts)
	}
	if s.Else != nil {
		return in.exec(s.Else)
	}
	return normal, nil
}

// execRepeat runs the body count times, binding the iteration index to
// time in the active scope.
func (in *Interpreter) execRepeat(s *syntax.RepeatStmt) (outcome, error) {
	v, err := in.eval(s.Count)
	if err != nil {
		return normal, err
	}
	n, err := value.ToNumber(v)
	if err != nil {
		return normal, at(typeErrorf("repeat count: %v", err), s.Count.Pos())
	}

	n = math.Trunc(n)
	if n > maxInt {
		return normal, at(errorf(RuntimeError, "repeat count %s is too large", value.FormatNumber(n)), s.Count.Pos())
	}
	var count int64
	if n > 0 {
		count = int64(n)
	}
	for i := int64(0); i < count; i++ {
		in.env.define(in.cur, "time", value.Number(i))
		o, err := in.execStmts(s.Body.Stmts)
		if err != nil || o.returned {
			return o, err
		}
	}
	return normal, nil
}
