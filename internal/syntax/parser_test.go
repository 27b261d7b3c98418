package syntax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseProgram(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse("test.gzmo", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog := parseProgram(t, src)
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Stmts))
	}
	es, ok := prog.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ExprStmt", prog.Stmts[0])
	}
	return es.X
}

// sexpr renders e fully parenthesized so grouping is visible.
func sexpr(e Expr) string {
	switch x := e.(type) {
	case *Name:
		return x.Value
	case *BasicLit:
		return x.Value
	case *ParenExpr:
		return sexpr(x.X)
	case *Operation:
		if x.Y == nil {
			if x.Op == _Not {
				return "(not " + sexpr(x.X) + ")"
			}
			return "(" + x.Op.String() + sexpr(x.X) + ")"
		}
		return "(" + sexpr(x.X) + " " + x.Op.String() + " " + sexpr(x.Y) + ")"
	case *CondExpr:
		return "(" + sexpr(x.Cond) + " ? " + sexpr(x.Then) + " : " + sexpr(x.Else) + ")"
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = sexpr(a)
		}
		return sexpr(x.Fun) + "(" + strings.Join(args, ", ") + ")"
	case *IndexExpr:
		return sexpr(x.X) + "[" + sexpr(x.Index) + "]"
	}
	return fmt.Sprintf("<%T>", e)
}

// ----------------------------------------------------------------------------
// Statements

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		src      string
		wantType Token
		wantName string
	}{
		{"frame f = x", _Frame, "f"},
		{"frames all = []", _Frames, "all"},
		{"num n = 1", _Num, "n"},
		{`text s = "hi"`, _Text, "s"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			d, ok := prog.Stmts[0].(*DeclStmt)
			if !ok {
				t.Fatalf("statement is %T, want *DeclStmt", prog.Stmts[0])
			}
			if d.Type != tt.wantType {
				t.Errorf("type = %v, want %v", d.Type, tt.wantType)
			}
			if d.Name.Value != tt.wantName {
				t.Errorf("name = %q, want %q", d.Name.Value, tt.wantName)
			}
			if d.Value == nil {
				t.Error("value is nil")
			}
		})
	}
}

func TestParseAssignVsExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string // statement type
	}{
		{"x = 1", "*syntax.AssignStmt"},
		{"x == 1", "*syntax.ExprStmt"},
		{"print(x)", "*syntax.ExprStmt"},
		{"play(f)", "*syntax.ExprStmt"},
		{"42", "*syntax.ExprStmt"},
		{"return 1", "*syntax.ReturnStmt"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			if got := fmt.Sprintf("%T", prog.Stmts[0]); got != tt.want {
				t.Errorf("statement = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseStatementSeparators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"newlines", "a = 1\nb = 2\nc = 3", 3},
		{"semicolons", "a = 1; b = 2; c = 3", 3},
		{"trailing_semi", "a = 1;", 1},
		{"blank_lines", "\n\na = 1\n\n\nb = 2\n\n", 2},
		{"comments", "// header\na = 1 // set a\n// done\n", 1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			if len(prog.Stmts) != tt.want {
				t.Errorf("got %d statements, want %d", len(prog.Stmts), tt.want)
			}
		})
	}
}

func TestParseIfChain(t *testing.T) {
	src := `if a then
  x = 1
elsif b then
  x = 2
else
  x = 3
end`
	prog := parseProgram(t, src)
	s, ok := prog.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want *IfStmt", prog.Stmts[0])
	}
	if len(s.Then.Stmts) != 1 {
		t.Errorf("then has %d statements, want 1", len(s.Then.Stmts))
	}
	elsif, ok := s.Else.(*IfStmt)
	if !ok {
		t.Fatalf("else is %T, want *IfStmt for elsif", s.Else)
	}
	if sexpr(elsif.Cond) != "b" {
		t.Errorf("elsif cond = %s, want b", sexpr(elsif.Cond))
	}
	els, ok := elsif.Else.(*BlockStmt)
	if !ok {
		t.Fatalf("final else is %T, want *BlockStmt", elsif.Else)
	}
	if len(els.Stmts) != 1 {
		t.Errorf("else has %d statements, want 1", len(els.Stmts))
	}
}

func TestParseIfVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no_else", "if x then y = 1 end"},
		{"one_line_else", "if x then y = 1 else y = 2 end"},
		{"empty_body", "if x then\nend"},
		{"nested", "if a then\n if b then\n  c = 1\n end\nend"},
		{"multi_elsif", "if a then x = 1 elsif b then x = 2 elsif c then x = 3 end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			if _, ok := prog.Stmts[0].(*IfStmt); !ok {
				t.Fatalf("statement is %T, want *IfStmt", prog.Stmts[0])
			}
		})
	}
}

func TestParseRepeat(t *testing.T) {
	prog := parseProgram(t, "repeat 3 times do\n  x = x + 1\n  print(x)\nend")
	s, ok := prog.Stmts[0].(*RepeatStmt)
	if !ok {
		t.Fatalf("statement is %T, want *RepeatStmt", prog.Stmts[0])
	}
	if sexpr(s.Count) != "3" {
		t.Errorf("count = %s, want 3", sexpr(s.Count))
	}
	if len(s.Body.Stmts) != 2 {
		t.Errorf("body has %d statements, want 2", len(s.Body.Stmts))
	}
}

func TestParseWhen(t *testing.T) {
	prog := parseProgram(t, "when clicked do\n  n = n + 1\nend\nwhen idle > 5000 do\n  stop()\nend")
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}

	clicked := prog.Stmts[0].(*WhenStmt)
	if clicked.Event != EventClicked || clicked.Idle != nil {
		t.Errorf("first handler = %v idle=%v, want clicked", clicked.Event, clicked.Idle)
	}

	idle := prog.Stmts[1].(*WhenStmt)
	if idle.Event != EventIdle {
		t.Errorf("second handler = %v, want idle", idle.Event)
	}
	if sexpr(idle.Idle) != "5000" {
		t.Errorf("idle threshold = %s, want 5000", sexpr(idle.Idle))
	}
	if len(idle.Body.Stmts) != 1 {
		t.Errorf("idle body has %d statements, want 1", len(idle.Body.Stmts))
	}
}

// ----------------------------------------------------------------------------
// Expressions

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"2 * 3 ^ 2", "(2 * (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"- -x", "(-(-x))"},
		{"x % 2 == 0", "((x % 2) == 0)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"not a == b", "((not a) == b)"},
		{"not (a == b)", "(not (a == b))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a ? b : c", "(a ? b : c)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"a or b ? 1 : 2", "((a or b) ? 1 : 2)"},
		{"row == col ? 1 : 0", "((row == col) ? 1 : 0)"},
		{"f(1, 2)[0]", "f(1, 2)[0]"},
		{"grid[r][c] + 1", "(grid[r][c] + 1)"},
		{"len(x) - 1", "(len(x) - 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := sexpr(parseExpr(t, tt.src)); got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseArrayLit(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"empty", "[]", 0},
		{"row", "[1, 0, 1]", 3},
		{"trailing_comma", "[1, 0, 1,]", 3},
		{"rows", "[[1, 0], [0, 1]]", 2},
		{"multiline", "[\n  [1, 0],\n  [0, 1]\n]", 2},
		{"multiline_trailing", "[\n  1,\n  0,\n]", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.src).(*ArrayLit)
			if !ok {
				t.Fatal("expression is not an *ArrayLit")
			}
			if len(lit.Elems) != tt.want {
				t.Errorf("got %d elements, want %d", len(lit.Elems), tt.want)
			}
		})
	}
}

func TestParseCallArgs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"none", "random()", 0},
		{"one", "sqrt(2)", 1},
		{"many", "place_sprite(canvas, s, 10, 20)", 4},
		{"multiline", "place_sprite(canvas,\n  s,\n  10, 20)", 4},
		{"trailing_comma", "max(1, 2,)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := parseExpr(t, tt.src).(*CallExpr)
			if !ok {
				t.Fatal("expression is not a *CallExpr")
			}
			if len(call.Args) != tt.want {
				t.Errorf("got %d args, want %d", len(call.Args), tt.want)
			}
		})
	}
}

func TestParseGenerators(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind Token
		wantBind string
		wantBody int
	}{
		{"pattern", "pattern(8, 8) { return row == col }", _Pattern, "", 1},
		{"animate", "animate(4, 4) using t { return (col + t) % 2 }", _Animate, "t", 1},
		{"evolve", "evolve(5, 5) from prev {\n  num n = count_neighbors(prev, row, col)\n  return n == 3\n}", _Evolve, "prev", 2},
		{"brace_next_line", "pattern(2, 2)\n{\n  row\n}", _Pattern, "", 1},
		{"empty_body", "pattern(2, 2) {}", _Pattern, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := parseExpr(t, tt.src).(*GenExpr)
			if !ok {
				t.Fatal("expression is not a *GenExpr")
			}
			if g.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", g.Kind, tt.wantKind)
			}
			bind := ""
			if g.Bind != nil {
				bind = g.Bind.Value
			}
			if bind != tt.wantBind {
				t.Errorf("bind = %q, want %q", bind, tt.wantBind)
			}
			if len(g.Body.Stmts) != tt.wantBody {
				t.Errorf("body has %d statements, want %d", len(g.Body.Stmts), tt.wantBody)
			}
		})
	}
}

func TestParseGeneratorInsideCall(t *testing.T) {
	// Newlines inside the body separate statements even inside parentheses.
	src := "add_frame(all, pattern(2, 2) {\n  num v = row\n  return v == col\n})\nplay(all)"
	prog := parseProgram(t, src)
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	call := prog.Stmts[0].(*ExprStmt).X.(*CallExpr)
	g, ok := call.Args[1].(*GenExpr)
	if !ok {
		t.Fatalf("second arg is %T, want *GenExpr", call.Args[1])
	}
	if len(g.Body.Stmts) != 2 {
		t.Errorf("body has %d statements, want 2", len(g.Body.Stmts))
	}
}

func TestParsePositions(t *testing.T) {
	src := "frame f = pattern(2, 2) {\n  return row\n}\nplay(f)"
	prog := parseProgram(t, src)

	decl := prog.Stmts[0].(*DeclStmt)
	if got := decl.Pos().String(); got != "test.gzmo:1:1" {
		t.Errorf("decl pos = %s, want test.gzmo:1:1", got)
	}
	g := decl.Value.(*GenExpr)
	if got := g.Pos().String(); got != "test.gzmo:1:11" {
		t.Errorf("generator pos = %s, want test.gzmo:1:11", got)
	}
	if got := g.Body.Pos().String(); got != "test.gzmo:1:25" {
		t.Errorf("body pos = %s, want test.gzmo:1:25", got)
	}
	ret := g.Body.Stmts[0].(*ReturnStmt)
	if got := ret.Pos().String(); got != "test.gzmo:2:3" {
		t.Errorf("return pos = %s, want test.gzmo:2:3", got)
	}
	call := prog.Stmts[1].(*ExprStmt).X.(*CallExpr)
	if got := call.Args[0].Pos().String(); got != "test.gzmo:4:6" {
		t.Errorf("arg pos = %s, want test.gzmo:4:6", got)
	}
}

// ----------------------------------------------------------------------------
// Errors

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantMsg  string
		wantLine uint32
		wantCol  uint32
		atEOF    bool
	}{
		{"decl_no_name", "frame = 3", "expected identifier, found '='", 1, 7, false},
		{"decl_no_assign", "num n 3", "expected '=', found number 3", 1, 7, false},
		{"if_no_then", "if x y = 1 end", `expected 'then', found identifier "y"`, 1, 6, false},
		{"if_no_end", "if x then y = 1", "expected 'end', found end of input", 1, 16, true},
		{"repeat_no_times", "repeat 3 do end", "expected 'times', found 'do'", 1, 10, false},
		{"when_bad_event", "when pressed do end", `expected 'clicked' or 'idle', found identifier "pressed"`, 1, 6, false},
		{"when_idle_no_gt", "when idle 10 do end", "expected '>', found number 10", 1, 11, false},
		{"two_exprs", "1 2", "expected newline or ';', found number 2", 1, 3, false},
		{"bad_operand", "x = )", "expected expression, found ')'", 1, 5, false},
		{"unclosed_paren", "x = (1 + 2", "expected ')', found end of input", 1, 11, true},
		{"unclosed_array", "[1, 2", "expected ']', found end of input", 1, 6, true},
		{"gen_no_brace", "pattern(2, 2) return 1", "expected '{', found 'return'", 1, 15, false},
		{"gen_no_paren", "pattern 2", "expected '(', found number 2", 1, 9, false},
		{"animate_no_using", "animate(2, 2) { }", "expected 'using', found '{'", 1, 15, false},
		{"evolve_no_from", "evolve(2, 2) using p { }", "expected 'from', found 'using'", 1, 14, false},
		{"unclosed_brace", "pattern(2, 2) {\n  return 1\n", "expected '}', found end of input", 3, 1, true},
		{"string_in_error", `x = 1 "s"`, `expected newline or ';', found string "s"`, 1, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.gzmo", strings.NewReader(tt.src))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.src)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
			if se.Msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", se.Msg, tt.wantMsg)
			}
			if se.Pos.Line() != tt.wantLine || se.Pos.Col() != tt.wantCol {
				t.Errorf("pos = %d:%d, want %d:%d", se.Pos.Line(), se.Pos.Col(), tt.wantLine, tt.wantCol)
			}
			if IsIncomplete(err) != tt.atEOF {
				t.Errorf("IsIncomplete = %v, want %v", IsIncomplete(err), tt.atEOF)
			}
		})
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	var msgs []string
	errh := func(pos Pos, msg string) {
		msgs = append(msgs, pos.String()+": "+msg)
	}
	p := NewParser("test.gzmo", strings.NewReader("x = )\ny = ]\nz = ,"), errh)
	p.Parse()

	if len(msgs) != 1 {
		t.Fatalf("got %d errors %v, want exactly 1", len(msgs), msgs)
	}
	if p.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", p.Errors())
	}
	if msgs[0] != "test.gzmo:1:5: expected expression, found ')'" {
		t.Errorf("error = %q", msgs[0])
	}
}

func TestParseLexError(t *testing.T) {
	_, err := Parse("test.gzmo", strings.NewReader("frame f = @"))
	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v (%T), want *LexError", err, err)
	}
	if le.Pos.Col() != 11 {
		t.Errorf("error col = %d, want 11", le.Pos.Col())
	}
	if IsIncomplete(err) {
		t.Error("lexical errors are never incomplete input")
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"if x then", true},
		{"repeat 3 times do\n  x = 1", true},
		{"frame f = pattern(2, 2) {", true},
		{"print(1,", true},
		{"x = 1", false},
		{"x = )", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if got := IsIncomplete(err); got != tt.want {
				t.Errorf("IsIncomplete(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	src := "frames all = []\nrepeat 4 times do\n  add_frame(all, pattern(4, 4) { return col == time })\nend\nloop(all)"
	a := parseProgram(t, src)
	b := parseProgram(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Error("two parses of the same script differ")
	}

	var bufA, bufB bytes.Buffer
	Fprint(&bufA, a)
	Fprint(&bufB, b)
	if bufA.String() != bufB.String() {
		t.Error("printed trees differ")
	}
}

// ----------------------------------------------------------------------------
// Walk, printing, JSON

func TestWalk(t *testing.T) {
	prog := parseProgram(t, "frame f = pattern(2, 2) { return row == col }")

	var names []string
	Inspect(prog, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			names = append(names, name.Value)
		}
		return true
	})

	want := []string{"f", "row", "col"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	prog := parseProgram(t, "x = 1\nframe f = pattern(2, 2) { return row }")

	count := 0
	Walk(prog, func(n Node) bool {
		count++
		_, isGen := n.(*GenExpr)
		return !isGen
	})

	// Program, AssignStmt, Name, BasicLit, DeclStmt, Name, GenExpr
	if count != 7 {
		t.Errorf("visited %d nodes, want 7", count)
	}
}

func TestExprString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * 2", "a + b * 2"},
		{`print("hi", 1)`, `print("hi", 1)`},
		{"not (x == 1)", "not (x == 1)"},
		{"-x", "-x"},
		{"[1, 0]", "[1, 0]"},
		{"f[0]", "f[0]"},
		{"a ? b : c", "a ? b : c"},
		{"animate(2, 2) using t { return t }", "animate(2, 2) using t {...}"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := ExprString(parseExpr(t, tt.src)); got != tt.want {
				t.Errorf("ExprString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFprintJSON(t *testing.T) {
	prog := parseProgram(t, "when clicked do\n  play(f)\nend")

	var buf bytes.Buffer
	if err := FprintJSON(&buf, prog); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc["type"] != "Program" {
		t.Errorf("root type = %v, want Program", doc["type"])
	}
	stmts := doc["stmts"].([]interface{})
	when := stmts[0].(map[string]interface{})
	if when["type"] != "WhenStmt" || when["event"] != "clicked" {
		t.Errorf("first stmt = %v %v, want WhenStmt clicked", when["type"], when["event"])
	}
}

// ----------------------------------------------------------------------------
// Golden tests

func TestParseGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/parse_*.gzmo")
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}

			p := NewParser(f, bytes.NewReader(src), nil)
			ast := p.Parse()
			if err := p.FirstError(); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			Fprint(&buf, ast)
			got := buf.String()

			golden := strings.TrimSuffix(f, ".gzmo") + ".ast.golden"

			if os.Getenv("UPDATE_GOLDEN") != "" {
				if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
					t.Fatal(err)
				}
				return
			}

			want, err := os.ReadFile(golden)
			if err != nil {
				t.Fatal(err)
			}

			if got != string(want) {
				t.Errorf("AST mismatch for %s\nRun with UPDATE_GOLDEN=1 to update\ngot:\n%s", f, got)
			}
		})
	}
}
