package check

import (
	"sort"

	"github.com/you-not-fish/gizmo/internal/syntax"
	"github.com/you-not-fish/gizmo/internal/value"
)

// Checker walks one program.
type Checker struct {
	conf *Config
	info *Info

	// Names bound anywhere in the program. Bindings are dynamic, so a name
	// is only reported when nothing could ever bind it.
	bound map[string]bool

	// Generator nesting; row and col exist only inside generator bodies.
	genDepth int

	errors int
	first  *Error
}

func (c *Checker) checkProgram(prog *syntax.Program) {
	// Phase 1: collect every name a statement can bind.
	// time is the repeat index, or the clock when unbound.
	for _, name := range []string{"true", "false", "time"} {
		c.bound[name] = true
	}
	syntax.Walk(prog, c.collect)

	// Phase 2: check statements in order.
	c.stmts(prog.Stmts)
}

func (c *Checker) collect(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.DeclStmt:
		c.bound[n.Name.Value] = true
	case *syntax.GenExpr:
		if n.Kind == syntax.KwAnimate && n.Bind != nil {
			c.bound[n.Bind.Value] = true
		}
	case *syntax.CallExpr:
		// add_frame defines its first argument when it is unbound.
		if fn, ok := n.Fun.(*syntax.Name); ok && fn.Value == "add_frame" && len(n.Args) > 0 {
			if name, ok := n.Args[0].(*syntax.Name); ok {
				c.bound[name.Value] = true
			}
		}
	}
	return true
}

// names returns the bound names, sorted, for suggestions.
func (c *Checker) names() []string {
	out := make([]string, 0, len(c.bound))
	for name := range c.bound {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.DeclStmt:
		x := c.expr(s.Value)
		c.checkDecl(s, x)

	case *syntax.AssignStmt:
		c.expr(s.Value)
		if !c.bound[s.Name.Value] {
			c.errorf(s.Name.Pos(), "%s", withHint("assignment to undeclared "+s.Name.Value, c.suggest(s.Name.Value)))
		}

	case *syntax.ExprStmt:
		c.expr(s.X)

	case *syntax.BlockStmt:
		c.stmts(s.Stmts)

	case *syntax.IfStmt:
		c.expr(s.Cond)
		c.stmts(s.Then.Stmts)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.RepeatStmt:
		c.numeric(c.expr(s.Count), "repeat count")
		c.stmts(s.Body.Stmts)

	case *syntax.WhenStmt:
		if s.Idle != nil {
			x := c.expr(s.Idle)
			c.numeric(x, "idle threshold")
			if n, ok := x.number(); ok && n < 0 {
				c.errorf(x.pos, "idle threshold %s is negative", value.FormatNumber(n))
			}
		}
		c.stmts(s.Body.Stmts)

	case *syntax.ReturnStmt:
		c.expr(s.Result)

	default:
		c.errorf(s.Pos(), "invalid AST: unexpected %T", s)
	}
}

// checkDecl reports initializers that can never satisfy the declared type.
func (c *Checker) checkDecl(s *syntax.DeclStmt, x operand) {
	if !x.known {
		return
	}
	ok := true
	switch s.Type {
	case syntax.KwNum:
		c.numeric(x, "num "+s.Name.Value)
		return
	case syntax.KwText:
		ok = x.kind == value.StringKind
	case syntax.KwFrame:
		ok = x.kind == value.FrameKind
	case syntax.KwFrames:
		ok = x.kind == value.FrameKind || x.kind == value.FramesKind
	}
	if !ok {
		c.errorf(x.pos, "cannot declare %s %s with a %s value", s.Type, s.Name.Value, x.kind)
	}
}
