package check

import (
	"errors"
	"strconv"

	"github.com/you-not-fish/gizmo/internal/interp"
	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// operand is what the checker knows about an expression's result.
type operand struct {
	pos   syntax.Pos
	known bool
	kind  value.Kind
	lit   *syntax.BasicLit // set for literal operands
}

// number returns the value of a numeric literal operand.
func (x operand) number() (float64, bool) {
	if x.lit == nil || x.lit.Kind != syntax.NumberLit {
		return 0, false
	}
	n, err := strconv.ParseFloat(x.lit.Value, 64)
	return n, err == nil
}

// resultKinds lists builtins whose result kind does not depend on their
// arguments.
var resultKinds = map[string]value.Kind{
	"sin":             value.NumberKind,
	"cos":             value.NumberKind,
	"tan":             value.NumberKind,
	"floor":           value.NumberKind,
	"ceil":            value.NumberKind,
	"abs":             value.NumberKind,
	"atan2":           value.NumberKind,
	"sqrt":            value.NumberKind,
	"random":          value.NumberKind,
	"min":             value.NumberKind,
	"max":             value.NumberKind,
	"len":             value.NumberKind,
	"count_neighbors": value.NumberKind,
	"get_pixel":       value.NumberKind,
	"flip":            value.FrameKind,
	"rotate":          value.FrameKind,
	"create_frame":    value.FrameKind,
	"last_frame":      value.FrameKind,
	"play":            value.BooleanKind,
	"loop":            value.BooleanKind,
	"play_speed":      value.BooleanKind,
	"loop_speed":      value.BooleanKind,
	"stop":            value.BooleanKind,
}

func (c *Checker) record(e syntax.Expr, x operand) operand {
	if x.known && c.info != nil && c.info.Kinds != nil {
		c.info.Kinds[e] = x.kind
	}
	return x
}

func known(pos syntax.Pos, k value.Kind) operand {
	return operand{pos: pos, known: true, kind: k}
}

func (c *Checker) expr(e syntax.Expr) operand {
	if e == nil {
		return operand{}
	}
	return c.record(e, c.exprInternal(e))
}

func (c *Checker) exprInternal(e syntax.Expr) operand {
	switch e := e.(type) {
	case *syntax.BasicLit:
		k := value.NumberKind
		if e.Kind == syntax.StringLit {
			k = value.StringKind
		}
		x := known(e.Pos(), k)
		x.lit = e
		return x

	case *syntax.Name:
		switch {
		case c.bound[e.Value]:
		case c.genDepth > 0 && (e.Value == "row" || e.Value == "col"):
			return known(e.Pos(), value.NumberKind)
		default:
			c.errorf(e.Pos(), "%s", withHint("undefined variable: "+e.Value, c.suggest(e.Value)))
		}
		return operand{pos: e.Pos()}

	case *syntax.ParenExpr:
		x := c.expr(e.X)
		x.pos = e.Pos()
		return x

	case *syntax.ArrayLit:
		return c.arrayLit(e)

	case *syntax.Operation:
		return c.operation(e)

	case *syntax.CondExpr:
		c.expr(e.Cond)
		x := c.expr(e.Then)
		y := c.expr(e.Else)
		if x.known && y.known && x.kind == y.kind {
			return known(e.Pos(), x.kind)
		}
		return operand{pos: e.Pos()}

	case *syntax.IndexExpr:
		x := c.expr(e.X)
		c.numeric(c.expr(e.Index), "index")
		if x.known && x.kind != value.FrameKind && x.kind != value.FramesKind {
			c.errorf(e.Pos(), "cannot index a %s value", x.kind)
		}
		return operand{pos: e.Pos()}

	case *syntax.CallExpr:
		return c.call(e)

	case *syntax.GenExpr:
		return c.generator(e)
	}

	c.errorf(e.Pos(), "invalid AST: unexpected %T", e)
	return operand{pos: e.Pos()}
}

func (c *Checker) arrayLit(e *syntax.ArrayLit) operand {
	if len(e.Elems) == 0 {
		return known(e.Pos(), value.FramesKind)
	}
	numbers, frames := 0, 0
	for i, el := range e.Elems {
		x := c.expr(el)
		if !x.known {
			continue
		}
		switch x.kind {
		case value.NumberKind:
			numbers++
		case value.FrameKind:
			if _, lit := el.(*syntax.ArrayLit); !lit {
				frames++
			}
		default:
			if i == 0 {
				c.errorf(x.pos, "array elements must be numbers or frames, got %s", x.kind)
			}
		}
	}
	switch len(e.Elems) {
	case numbers:
		return known(e.Pos(), value.FrameKind)
	case frames:
		return known(e.Pos(), value.FramesKind)
	}
	return operand{pos: e.Pos()}
}

func (c *Checker) operation(e *syntax.Operation) operand {
	if e.Y == nil {
		x := c.expr(e.X)
		if e.Op == syntax.Not {
			return known(e.Pos(), value.BooleanKind)
		}
		c.numeric(x, "operand of "+e.Op.String())
		return known(e.Pos(), value.NumberKind)
	}

	x := c.expr(e.X)
	y := c.expr(e.Y)
	switch e.Op {
	case syntax.And, syntax.Or, syntax.Eql, syntax.Neq:
		return known(e.Pos(), value.BooleanKind)
	}

	c.numeric(x, "left operand of "+e.Op.String())
	c.numeric(y, "right operand of "+e.Op.String())
	if e.Op == syntax.Div || e.Op == syntax.Rem {
		if n, ok := y.number(); ok && n == 0 {
			c.errorf(e.Pos(), "division by zero")
		}
	}

	switch e.Op {
	case syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		return known(e.Pos(), value.BooleanKind)
	}
	return known(e.Pos(), value.NumberKind)
}

// numeric reports operands that can never convert to a number.
func (c *Checker) numeric(x operand, what string) {
	if !x.known {
		return
	}
	switch x.kind {
	case value.NumberKind, value.BooleanKind:
	case value.StringKind:
		if x.lit == nil {
			return
		}
		if _, err := strconv.ParseFloat(x.lit.Value, 64); err != nil {
			c.errorf(x.pos, "%s: cannot convert %q to number", what, x.lit.Value)
		}
	default:
		c.errorf(x.pos, "%s: cannot convert %s to number", what, x.kind)
	}
}

func (c *Checker) call(e *syntax.CallExpr) operand {
	for _, a := range e.Args {
		c.expr(a)
	}

	fn, ok := e.Fun.(*syntax.Name)
	if !ok {
		c.errorf(e.Pos(), "cannot call %s", syntax.ExprString(e.Fun))
		return operand{pos: e.Pos()}
	}
	if !interp.IsBuiltin(fn.Value) {
		c.errorf(fn.Pos(), "%s", withHint("undefined function: "+fn.Value, interp.Suggest(fn.Value, interp.BuiltinNames())))
		return operand{pos: e.Pos()}
	}
	if err := interp.CheckArity(fn.Value, len(e.Args)); err != nil {
		var ie *interp.Error
		if errors.As(err, &ie) {
			c.errorf(e.Pos(), "%s", ie.Msg)
		} else {
			c.errorf(e.Pos(), "%v", err)
		}
	}
	if k, ok := resultKinds[fn.Value]; ok {
		return known(e.Pos(), k)
	}
	return operand{pos: e.Pos()}
}

func (c *Checker) generator(e *syntax.GenExpr) operand {
	c.numeric(c.expr(e.Width), e.Kind.String()+" width")
	c.numeric(c.expr(e.Height), e.Kind.String()+" height")
	if e.Kind == syntax.KwEvolve && e.Bind != nil && !c.bound[e.Bind.Value] {
		c.errorf(e.Bind.Pos(), "%s", withHint("evolve from undefined "+e.Bind.Value, c.suggest(e.Bind.Value)))
	}

	c.genDepth++
	c.stmts(e.Body.Stmts)
	c.genDepth--
	return known(e.Pos(), value.FrameKind)
}

func (c *Checker) suggest(name string) string {
	return interp.Suggest(name, c.names())
}
