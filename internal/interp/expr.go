package interp

import (
	"math"
	"strconv"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// eval evaluates an expression in the active scope.
func (in *Interpreter) eval(e syntax.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *syntax.BasicLit:
		return in.evalLit(e)

	case *syntax.Name:
		return in.evalName(e)

	case *syntax.ParenExpr:
		return in.eval(e.X)

	case *syntax.ArrayLit:
		return in.evalArray(e)

	case *syntax.Operation:
		if e.Y == nil {
			return in.evalUnary(e)
		}
		return in.evalBinary(e)

	case *syntax.CondExpr:
		c, err := in.eval(e.Cond)
		if err != nil {
			return nil, err
		}
		if value.Truthy(c) {
			return in.eval(e.Then)
		}
		return in.eval(e.Else)

	case *syntax.IndexExpr:
		return in.evalIndex(e)

	case *syntax.CallExpr:
		return in.evalCall(e)

	case *syntax.GenExpr:
		return in.evalGen(e)
	}
	return nil, at(errorf(RuntimeError, "unexpected expression %T", e), e.Pos())
}

func (in *Interpreter) evalLit(e *syntax.BasicLit) (value.Value, error) {
	if e.Kind == syntax.StringLit {
		return value.String(e.Value), nil
	}
	n, err := strconv.ParseFloat(e.Value, 64)
	if err != nil {
		return nil, at(errorf(RuntimeError, "malformed number %q", e.Value), e.Pos())
	}
	return value.Number(n), nil
}

func (in *Interpreter) evalName(e *syntax.Name) (value.Value, error) {
	if v, _, ok := in.env.lookup(in.cur, e.Value); ok {
		return v, nil
	}
	if e.Value == "time" {
		return value.Number(in.clock), nil
	}
	return nil, in.undefinedVariable(e)
}

func (in *Interpreter) undefinedVariable(n *syntax.Name) error {
	return &Error{
		Kind: UndefinedVariable,
		Name: n.Value,
		Pos:  n.Pos(),
		Hint: Suggest(n.Value, in.env.names(in.cur)),
	}
}

// evalArray types an array literal by its elements:
//
//	[]                  empty frames
//	[1, 0, 1]           a 1-row frame
//	[[1, 0], [0, 1]]    rows stacked into one frame
//	[f, g]              frames
func (in *Interpreter) evalArray(e *syntax.ArrayLit) (value.Value, error) {
	if len(e.Elems) == 0 {
		return value.Frames{}, nil
	}

	vals := make([]value.Value, len(e.Elems))
	for i, el := range e.Elems {
		v, err := in.eval(el)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	switch vals[0].(type) {
	case value.Number:
		row := make([]bool, len(vals))
		for i, v := range vals {
			n, ok := v.(value.Number)
			if !ok {
				return nil, mixedArray(e, i, v, value.NumberKind)
			}
			row[i] = n != 0
		}
		f, err := frame.FromRows([][]bool{row})
		if err != nil {
			return nil, at(fromFrame(err), e.Pos())
		}
		return value.NewFrame(f), nil

	case value.Frame:
		frames := make(value.Frames, len(vals))
		rowLits := true
		for i, v := range vals {
			f, ok := v.(value.Frame)
			if !ok {
				return nil, mixedArray(e, i, v, value.FrameKind)
			}
			frames[i] = f.F
			if _, lit := e.Elems[i].(*syntax.ArrayLit); !lit || f.F.Height() != 1 {
				rowLits = false
			}
		}
		if rowLits {
			return stackRows(e, frames)
		}
		return frames, nil
	}
	return nil, at(typeErrorf("array elements must be numbers or frames, got %s", value.TypeName(vals[0])), e.Elems[0].Pos())
}

func mixedArray(e *syntax.ArrayLit, i int, v value.Value, want value.Kind) error {
	return at(typeErrorf("array element %d is %s, want %s", i, value.TypeName(v), want), e.Elems[i].Pos())
}

// stackRows joins 1-row frames into one frame.
func stackRows(e *syntax.ArrayLit, rows value.Frames) (value.Value, error) {
	grid := make([][]bool, len(rows))
	for i, r := range rows {
		grid[i] = r.Rows()[0]
	}
	f, err := frame.FromRows(grid)
	if err != nil {
		return nil, at(fromFrame(err), e.Pos())
	}
	return value.NewFrame(f), nil
}

func (in *Interpreter) evalUnary(e *syntax.Operation) (value.Value, error) {
	x, err := in.eval(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.Not:
		return value.Boolean(!value.Truthy(x)), nil
	case syntax.Sub:
		n, err := value.ToNumber(x)
		if err != nil {
			return nil, at(typeErrorf("operand of -: %v", err), e.Pos())
		}
		return value.Number(-n), nil
	}
	return nil, at(errorf(RuntimeError, "unknown unary operator %s", e.Op), e.Pos())
}

func (in *Interpreter) evalBinary(e *syntax.Operation) (value.Value, error) {
	// and/or evaluate the right operand only when needed.
	switch e.Op {
	case syntax.And, syntax.Or:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		if value.Truthy(x) == (e.Op == syntax.Or) {
			return value.Boolean(e.Op == syntax.Or), nil
		}
		y, err := in.eval(e.Y)
		if err != nil {
			return nil, err
		}
		return value.Boolean(value.Truthy(y)), nil
	}

	x, err := in.eval(e.X)
	if err != nil {
		return nil, err
	}
	y, err := in.eval(e.Y)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case syntax.Eql:
		return value.Boolean(value.Equal(x, y)), nil
	case syntax.Neq:
		return value.Boolean(!value.Equal(x, y)), nil
	}

	a, err := value.ToNumber(x)
	if err != nil {
		return nil, at(typeErrorf("left operand of %s: %v", e.Op, err), e.X.Pos())
	}
	b, err := value.ToNumber(y)
	if err != nil {
		return nil, at(typeErrorf("right operand of %s: %v", e.Op, err), e.Y.Pos())
	}

	switch e.Op {
	case syntax.Add:
		return value.Number(a + b), nil
	case syntax.Sub:
		return value.Number(a - b), nil
	case syntax.Mul:
		return value.Number(a * b), nil
	case syntax.Div:
		if b == 0 {
			return nil, at(&Error{Kind: DivisionByZero}, e.Pos())
		}
		return value.Number(a / b), nil
	case syntax.Rem:
		if b == 0 {
			return nil, at(&Error{Kind: DivisionByZero}, e.Pos())
		}
		return value.Number(math.Mod(a, b)), nil
	case syntax.Pow:
		return value.Number(math.Pow(a, b)), nil
	case syntax.Lss:
		return value.Boolean(a < b), nil
	case syntax.Leq:
		return value.Boolean(a <= b), nil
	case syntax.Gtr:
		return value.Boolean(a > b), nil
	case syntax.Geq:
		return value.Boolean(a >= b), nil
	}
	return nil, at(errorf(RuntimeError, "unknown operator %s", e.Op), e.Pos())
}

// evalIndex handles frame[i] (a row) and frames[i] (a frame).
func (in *Interpreter) evalIndex(e *syntax.IndexExpr) (value.Value, error) {
	x, err := in.eval(e.X)
	if err != nil {
		return nil, err
	}
	iv, err := in.eval(e.Index)
	if err != nil {
		return nil, err
	}

	var length int
	switch x := x.(type) {
	case value.Frame:
		length = x.F.Height()
	case value.Frames:
		length = len(x)
	default:
		return nil, at(typeErrorf("cannot index %s", value.TypeName(x)), e.X.Pos())
	}

	n, err := value.ToNumber(iv)
	if err != nil {
		return nil, at(typeErrorf("index: %v", err), e.Index.Pos())
	}
	n = math.Trunc(n)
	if math.IsNaN(n) || n < 0 || n >= float64(length) {
		return nil, at(errorf(IndexError, "index %s out of range [0, %d)", value.FormatNumber(n), length), e.Index.Pos())
	}
	i := int(n)

	if fs, ok := x.(value.Frames); ok {
		return value.NewFrame(fs[i]), nil
	}
	row, err := x.(value.Frame).F.Row(i)
	if err != nil {
		return nil, at(fromFrame(err), e.Index.Pos())
	}
	return value.NewFrame(row), nil
}
