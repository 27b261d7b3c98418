package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// section prints "label:" followed by node one level deeper.
func (p *printer) section(label string, node Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) stmts(list []Stmt) {
	for _, s := range list {
		p.print(s)
	}
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program %s\n", n.pos)
		p.indent++
		p.stmts(n.Stmts)
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		p.stmts(n.Stmts)
		p.indent--

	case *DeclStmt:
		p.printf("DeclStmt %s %s %s\n", n.pos, n.Type, n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Then", n.Then)
		if n.Else != nil {
			p.section("Else", n.Else)
		}
		p.indent--

	case *RepeatStmt:
		p.printf("RepeatStmt %s\n", n.pos)
		p.indent++
		p.section("Count", n.Count)
		p.section("Body", n.Body)
		p.indent--

	case *WhenStmt:
		p.printf("WhenStmt %s %s\n", n.pos, n.Event)
		p.indent++
		if n.Idle != nil {
			p.section("Idle", n.Idle)
		}
		p.section("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		p.indent++
		p.print(n.Result)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *ArrayLit:
		p.printf("ArrayLit %s len=%d\n", n.pos, len(n.Elems))
		p.indent++
		for _, e := range n.Elems {
			p.print(e)
		}
		p.indent--

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.section("X", n.X)
			p.section("Y", n.Y)
			p.indent--
		}

	case *CondExpr:
		p.printf("CondExpr %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Then", n.Then)
		p.section("Else", n.Else)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, ExprString(n.Fun))
		if len(n.Args) > 0 {
			p.indent++
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent -= 2
		}

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.section("X", n.X)
		p.section("Index", n.Index)
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *GenExpr:
		if n.Bind != nil {
			p.printf("GenExpr %s %s bind=%s\n", n.pos, n.Kind, n.Bind.Value)
		} else {
			p.printf("GenExpr %s %s\n", n.pos, n.Kind)
		}
		p.indent++
		p.section("Width", n.Width)
		p.section("Height", n.Height)
		p.section("Body", n.Body)
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString renders an expression back to compact source form.
// It is used in diagnostics and the REPL.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			b.WriteString(strconv.Quote(x.Value))
		} else {
			b.WriteString(x.Value)
		}
	case *ArrayLit:
		b.WriteByte('[')
		for i, el := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, el)
		}
		b.WriteByte(']')
	case *Operation:
		if x.Y == nil {
			b.WriteString(x.Op.String())
			if x.Op == _Not {
				b.WriteByte(' ')
			}
			writeExpr(b, x.X)
			return
		}
		writeExpr(b, x.X)
		b.WriteString(" " + x.Op.String() + " ")
		writeExpr(b, x.Y)
	case *CondExpr:
		writeExpr(b, x.Cond)
		b.WriteString(" ? ")
		writeExpr(b, x.Then)
		b.WriteString(" : ")
		writeExpr(b, x.Else)
	case *CallExpr:
		writeExpr(b, x.Fun)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *IndexExpr:
		writeExpr(b, x.X)
		b.WriteByte('[')
		writeExpr(b, x.Index)
		b.WriteByte(']')
	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(')')
	case *GenExpr:
		b.WriteString(x.Kind.String() + "(")
		writeExpr(b, x.Width)
		b.WriteString(", ")
		writeExpr(b, x.Height)
		b.WriteByte(')')
		switch x.Kind {
		case _Animate:
			b.WriteString(" using " + x.Bind.Value)
		case _Evolve:
			b.WriteString(" from " + x.Bind.Value)
		}
		b.WriteString(" {...}")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}
