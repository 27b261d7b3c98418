package interp

import (
	"math"

	"github.com/you-not-fish/gizmo/internal/frame"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// evalGen builds a frame by running the generator body once per pixel in
// row-major order.
//
// Every pixel runs in the same isolated scope record, a child of the scope
// active when the generator started. The record is cleared before each
// pixel and then holds row, col and the generator's bound name, so nothing
// a body defines or assigns is visible to the next pixel.
func (in *Interpreter) evalGen(g *syntax.GenExpr) (value.Value, error) {
	w, err := in.genSize(g, g.Width, "width")
	if err != nil {
		return nil, err
	}
	h, err := in.genSize(g, g.Height, "height")
	if err != nil {
		return nil, err
	}

	var prev value.Value
	if g.Kind == syntax.KwEvolve {
		v, _, ok := in.env.lookup(in.cur, g.Bind.Value)
		if !ok {
			return nil, at(errorf(RuntimeError, "evolve from %s: no previous frame bound", g.Bind.Value), g.Bind.Pos())
		}
		if _, ok := v.(value.Frame); !ok {
			return nil, at(errorf(RuntimeError, "evolve from %s: %s is not a frame", g.Bind.Value, value.TypeName(v)), g.Bind.Pos())
		}
		prev = v
	}

	out := frame.Blank(w, h)

	parent := in.cur
	px := in.env.push(parent, true)
	in.cur = px
	defer func() {
		in.env.pop(px)
		in.cur = parent
	}()

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			in.env.reset(px)
			in.env.define(px, "row", value.Number(row))
			in.env.define(px, "col", value.Number(col))
			switch g.Kind {
			case syntax.KwAnimate:
				in.env.define(px, g.Bind.Value, value.Number(in.clock))
			case syntax.KwEvolve:
				in.env.define(px, g.Bind.Value, prev)
			}

			on, err := in.pixel(g.Body.Stmts)
			if err != nil {
				return nil, err
			}
			out.Set(row, col, on)
		}
	}
	return value.NewFrame(out), nil
}

// genSize evaluates a generator dimension, truncated toward zero.
func (in *Interpreter) genSize(g *syntax.GenExpr, e syntax.Expr, what string) (int, error) {
	v, err := in.eval(e)
	if err != nil {
		return 0, err
	}
	n, err := value.ToNumber(v)
	if err != nil {
		return 0, at(typeErrorf("%s %s: %v", g.Kind, what, err), e.Pos())
	}
	n = math.Trunc(n)
	if math.IsNaN(n) || n < 0 || n > maxInt {
		return 0, at(errorf(RuntimeError, "%s %s %s is not a valid size", g.Kind, what, value.FormatNumber(n)), e.Pos())
	}
	return int(n), nil
}

// pixel runs a generator body for one pixel. The pixel is on when the
// first return value is truthy or, without a return, when the body's
// trailing expression statement is.
func (in *Interpreter) pixel(body []syntax.Stmt) (bool, error) {
	for i, s := range body {
		if es, ok := s.(*syntax.ExprStmt); ok && i == len(body)-1 {
			v, err := in.eval(es.X)
			if err != nil {
				return false, err
			}
			return value.Truthy(v), nil
		}
		o, err := in.exec(s)
		if err != nil {
			return false, err
		}
		if o.returned {
			return value.Truthy(o.value), nil
		}
	}
	return false, nil
}
