package syntax

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos   Pos
	Msg   string
	AtEOF bool // the offending token was the end of input
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// IsIncomplete reports whether err is a syntax error caused by input ending
// too early, i.e. more lines could still complete the statement.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.AtEOF
}

// Parser performs syntax analysis on Gizmo scripts.
// Parsing stops at the first error; there is no resynchronization.
type Parser struct {
	toks []TokenInfo
	i    int

	// Current token info (cached from toks[i])
	tok  Token
	lit  string
	kind LitKind
	pos  Pos

	// Error handling
	errh  func(pos Pos, msg string)
	first error // first error encountered
	abort bool  // set after the first error

	// nest counts open ( and [ around the current token. Newlines are
	// insignificant while it is positive.
	nest int
}

// NewParser creates a new Parser for the given script.
// The script is tokenized eagerly; a lexical error is reported through errh
// and becomes the parser's first error.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{errh: errh}
	toks, err := Tokenize(filename, src)
	if err != nil {
		var le *LexError
		if errors.As(err, &le) && errh != nil {
			errh(le.Pos, le.Msg)
		}
		p.first = err
		p.abort = true
		p.tok = _EOF
		return p
	}
	p.toks = toks
	p.i = -1
	p.next() // prime the parser with first token
	return p
}

// Parse parses a complete script. It returns the first lexical or syntax
// error, if any.
func Parse(filename string, src io.Reader) (*Program, error) {
	p := NewParser(filename, src, nil)
	prog := p.Parse()
	if err := p.FirstError(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseString is like Parse for an in-memory script without a file name.
func ParseString(src string) (*Program, error) {
	return Parse("", strings.NewReader(src))
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	if p.abort {
		return
	}
	for {
		if p.i < len(p.toks)-1 {
			p.i++
		}
		t := p.toks[p.i]
		p.tok, p.lit, p.kind, p.pos = t.Tok, t.Lit, t.Kind, t.Pos
		if p.tok != _Newline || p.nest == 0 {
			return
		}
	}
}

// peek returns the token after the current one.
func (p *Parser) peek() Token {
	if p.abort || p.i+1 >= len(p.toks) {
		return _EOF
	}
	return p.toks[p.i+1].Tok
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.errorExpected(describe(tok))
	}
}

// skipNewlines skips newlines and stray semicolons between statements.
func (p *Parser) skipNewlines() {
	for p.tok == _Newline || p.tok == _Semi {
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Error handling

// errorExpected reports "expected what, found <current token>".
func (p *Parser) errorExpected(what string) {
	p.syntaxError("expected " + what + ", found " + p.found())
}

// syntaxError reports a syntax error at the current position and aborts.
func (p *Parser) syntaxError(msg string) {
	if p.abort {
		return
	}
	p.first = &SyntaxError{Pos: p.pos, Msg: msg, AtEOF: p.tok == _EOF}
	if p.errh != nil {
		p.errh(p.pos, msg)
	}
	p.abort = true
	p.tok = _EOF
}

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _Name:
		return "identifier " + strconv.Quote(p.lit)
	case _Literal:
		if p.kind == StringLit {
			return "string " + strconv.Quote(p.lit)
		}
		return "number " + p.lit
	}
	return describe(p.tok)
}

// describe names a token kind for error messages.
func describe(tok Token) string {
	switch tok {
	case _EOF:
		return "end of input"
	case _Newline:
		return "newline"
	case _Name:
		return "identifier"
	case _Literal:
		return "literal"
	}
	return "'" + tok.String() + "'"
}

// Errors returns the number of errors encountered (0 or 1).
func (p *Parser) Errors() int {
	if p.first != nil {
		return 1
	}
	return 0
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole token stream and returns the AST.
// On error the partial Program is returned and FirstError is set.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	prog.pos = NewPos("", 1, 1)
	if len(p.toks) > 0 {
		prog.pos = p.toks[0].Pos
	}
	prog.Stmts = p.stmtList(_EOF)
	return prog
}

// ----------------------------------------------------------------------------
// Statements

// stmtList parses statements until one of the terminator tokens (or EOF).
// The terminator itself is not consumed.
func (p *Parser) stmtList(terms ...Token) []Stmt {
	var list []Stmt
	for {
		p.skipNewlines()
		if p.tok == _EOF || isTerm(p.tok, terms) {
			break
		}
		s := p.stmt()
		if s != nil {
			list = append(list, s)
		}
		if p.abort {
			break
		}
		// A statement ends at ';', a newline, the end of the block or EOF.
		if !p.got(_Semi) && !p.got(_Newline) && p.tok != _EOF && !isTerm(p.tok, terms) {
			p.errorExpected("newline or ';'")
			break
		}
	}
	if p.tok == _EOF && !isTerm(_EOF, terms) {
		p.errorExpected(describe(terms[len(terms)-1]))
	}
	return list
}

func isTerm(tok Token, terms []Token) bool {
	for _, t := range terms {
		if tok == t {
			return true
		}
	}
	return false
}

// block parses a statement list into a BlockStmt ending at one of terms.
func (p *Parser) block(terms ...Token) *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos
	b.Stmts = p.stmtList(terms...)
	b.End = p.pos
	return b
}

// stmt parses a single statement.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Frame, _Frames, _Num, _Text:
		return p.declStmt()

	case _Name:
		if p.peek() == _Assign {
			return p.assignStmt()
		}
		return p.exprStmt()

	case _If:
		return p.ifStmt()

	case _Repeat:
		return p.repeatStmt()

	case _When:
		return p.whenStmt()

	case _Return:
		return p.returnStmt()

	default:
		return p.exprStmt()
	}
}

// declStmt parses: frame|frames|num|text NAME = expr
func (p *Parser) declStmt() Stmt {
	s := &DeclStmt{Type: p.tok}
	s.pos = p.pos
	p.next()
	s.Name = p.name()
	p.want(_Assign)
	s.Value = p.expr()
	return s
}

// assignStmt parses: NAME = expr
func (p *Parser) assignStmt() Stmt {
	s := &AssignStmt{}
	s.pos = p.pos
	s.Name = p.name()
	p.want(_Assign)
	s.Value = p.expr()
	return s
}

func (p *Parser) exprStmt() Stmt {
	s := &ExprStmt{}
	s.pos = p.pos
	s.X = p.expr()
	return s
}

// ifStmt parses: if cond then stmts {elsif cond then stmts} [else stmts] end
// It is entered at 'if' or, for chained branches, at 'elsif'.
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos
	p.next() // consume if / elsif

	s.Cond = p.expr()
	p.want(_Then)
	s.Then = p.block(_Elsif, _Else, _End)

	switch p.tok {
	case _Elsif:
		s.Else = p.ifStmt() // consumes the shared 'end'
	case _Else:
		p.next()
		s.Else = p.block(_End)
		p.want(_End)
	default:
		p.want(_End)
	}
	return s
}

// repeatStmt parses: repeat expr times do stmts end
func (p *Parser) repeatStmt() Stmt {
	s := &RepeatStmt{}
	s.pos = p.pos
	p.next()

	s.Count = p.expr()
	p.want(_Times)
	p.want(_Do)
	s.Body = p.block(_End)
	p.want(_End)
	return s
}

// whenStmt parses: when clicked do stmts end | when idle > expr do stmts end
func (p *Parser) whenStmt() Stmt {
	s := &WhenStmt{}
	s.pos = p.pos
	p.next()

	switch p.tok {
	case _Clicked:
		p.next()
		s.Event = EventClicked
	case _Idle:
		p.next()
		s.Event = EventIdle
		p.want(_Gtr)
		s.Idle = p.expr()
	default:
		p.errorExpected("'clicked' or 'idle'")
		return s
	}

	p.want(_Do)
	s.Body = p.block(_End)
	p.want(_End)
	return s
}

// returnStmt parses: return expr
func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos
	p.next()
	s.Result = p.expr()
	return s
}

// name parses an identifier.
func (p *Parser) name() *Name {
	n := &Name{Value: p.lit}
	n.pos = p.pos
	if p.tok != _Name {
		p.errorExpected("identifier")
		n.Value = "_"
		return n
	}
	p.next()
	return n
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression, including the conditional operator.
func (p *Parser) expr() Expr {
	x := p.binaryExpr(0)
	if p.tok != _Question {
		return x
	}

	c := &CondExpr{Cond: x}
	c.pos = x.Pos()
	p.next()
	c.Then = p.expr()
	p.want(_Colon)
	c.Else = p.expr() // right-associative
	return c
}

// binaryExpr parses a binary expression with minimum precedence prec
// by precedence climbing.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()

	for {
		oprec := p.tok.Precedence()
		if oprec <= prec {
			return x
		}

		op := &Operation{Op: p.tok, X: x}
		op.pos = x.Pos()
		p.next()

		if op.Op.RightAssoc() {
			op.Y = p.binaryExpr(oprec - 1)
		} else {
			op.Y = p.binaryExpr(oprec)
		}
		x = op
	}
}

// unaryExpr parses a unary expression.
func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub:
		op := &Operation{Op: p.tok}
		op.pos = p.pos
		p.next()
		op.X = p.unaryExpr()
		return op
	}
	return p.primaryExpr()
}

// primaryExpr parses an operand followed by postfix calls and indexing.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()

	for {
		switch p.tok {
		case _Lparen:
			x = p.callExpr(x)
		case _Lbrack:
			x = p.indexExpr(x)
		default:
			return x
		}
	}
}

// operand parses the base of a primary expression.
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		return p.name()

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.kind}
		lit.pos = p.pos
		p.next()
		return lit

	case _Lparen:
		paren := &ParenExpr{}
		paren.pos = p.pos
		p.open()
		paren.X = p.expr()
		p.close(_Rparen)
		return paren

	case _Lbrack:
		return p.arrayLit()

	case _Pattern, _Animate, _Evolve:
		return p.genExpr()

	default:
		p.errorExpected("expression")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
}

// open consumes an opening ( or [ and enters a newline-insensitive region.
func (p *Parser) open() {
	p.nest++
	p.next()
}

// close leaves the region opened by open and consumes the closing token.
func (p *Parser) close(tok Token) {
	p.nest--
	p.want(tok)
}

// arrayLit parses [elem, elem, ...] with an optional trailing comma.
func (p *Parser) arrayLit() Expr {
	lit := &ArrayLit{}
	lit.pos = p.pos
	p.open()
	for p.tok != _Rbrack && p.tok != _EOF {
		lit.Elems = append(lit.Elems, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	p.close(_Rbrack)
	return lit
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) Expr {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.open()
	if p.tok != _Rparen {
		call.Args = p.exprList()
	}
	p.close(_Rparen)
	return call
}

// indexExpr parses X[Index]
func (p *Parser) indexExpr(x Expr) Expr {
	idx := &IndexExpr{X: x}
	idx.pos = x.Pos()

	p.open()
	idx.Index = p.expr()
	p.close(_Rbrack)
	return idx
}

// genExpr parses the pattern, animate and evolve generator forms.
func (p *Parser) genExpr() Expr {
	g := &GenExpr{Kind: p.tok}
	g.pos = p.pos
	p.next()

	if p.tok != _Lparen {
		p.errorExpected(describe(_Lparen))
		return g
	}
	p.open()
	g.Width = p.expr()
	p.want(_Comma)
	g.Height = p.expr()
	p.close(_Rparen)

	switch g.Kind {
	case _Animate:
		p.want(_Using)
		g.Bind = p.name()
	case _Evolve:
		p.want(_From)
		g.Bind = p.name()
	}

	g.Body = p.braceBlock()
	return g
}

// braceBlock parses { stmts }. Newlines inside separate statements again,
// even when the block itself sits inside parentheses.
func (p *Parser) braceBlock() *BlockStmt {
	outer := p.nest
	p.nest = 0
	for p.tok == _Newline {
		p.next()
	}
	lbrace := p.pos
	p.want(_Lbrace)
	b := p.block(_Rbrace)
	b.pos = lbrace
	p.nest = outer
	p.want(_Rbrace)
	return b
}

// exprList parses a comma-separated list of expressions.
func (p *Parser) exprList() []Expr {
	list := []Expr{p.expr()}
	for p.got(_Comma) {
		if p.tok == _Rparen {
			break // trailing comma
		}
		list = append(list, p.expr())
	}
	return list
}
