package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on Gizmo scripts.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number text, decoded string)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given script.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{
		source: *newSource(filename, src, errh),
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case s.ch == '\n':
		s.nextch()
		s.tok = _Newline
		s.lit = "\n"

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// a comment was skipped
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() is a literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans digits with an optional fractional part.
// The '.' only belongs to the number when a digit follows it.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.scanDigits()

	if s.ch == '.' && isDigit(s.peek()) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		s.scanDigits()
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
	s.kind = NumberLit
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
}

// scanString scans a string literal.
// The resulting literal is the decoded string content.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	var b strings.Builder

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}

		case s.ch == '\n' || s.ch < 0:
			s.errorAt(s.tokPos.line, s.tokPos.col, "string not terminated")
			s.lit = b.String()
			s.tok = _Literal
			s.kind = StringLit
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '\\':
		s.nextch()
		return '\\', true
	case '"':
		s.nextch()
		return '"', true
	case -1, '\n':
		// reported as an unterminated string by the caller
		return 0, false
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok, s.lit = _Add, "+"
	case '-':
		s.tok, s.lit = _Sub, "-"
	case '*':
		s.tok, s.lit = _Mul, "*"
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.tok, s.lit = _Div, "/"
	case '%':
		s.tok, s.lit = _Rem, "%"
	case '^':
		s.tok, s.lit = _Pow, "^"
	case '<':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Leq, "<="
		} else {
			s.tok, s.lit = _Lss, "<"
		}
	case '>':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Geq, ">="
		} else {
			s.tok, s.lit = _Gtr, ">"
		}
	case '=':
		if s.ch == '=' {
			s.nextch()
			s.tok, s.lit = _Eql, "=="
		} else {
			s.tok, s.lit = _Assign, "="
		}
	case '!':
		if s.ch != '=' {
			s.errorAt(s.tokPos.line, s.tokPos.col, "unexpected character '!' (use 'not' or '!=')")
			return true
		}
		s.nextch()
		s.tok, s.lit = _Neq, "!="
	case '(':
		s.tok, s.lit = _Lparen, "("
	case ')':
		s.tok, s.lit = _Rparen, ")"
	case '[':
		s.tok, s.lit = _Lbrack, "["
	case ']':
		s.tok, s.lit = _Rbrack, "]"
	case '{':
		s.tok, s.lit = _Lbrace, "{"
	case '}':
		s.tok, s.lit = _Rbrace, "}"
	case ',':
		s.tok, s.lit = _Comma, ","
	case ';':
		s.tok, s.lit = _Semi, ";"
	case ':':
		s.tok, s.lit = _Colon, ":"
	case '?':
		s.tok, s.lit = _Question, "?"
	}

	return false
}

// skipLineComment skips a line comment (from // to end of line).
// The terminating newline is left in place so it is still emitted as a token.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// ----------------------------------------------------------------------------
// Whole-script tokenization

// TokenInfo is one scanned token with its literal and position.
type TokenInfo struct {
	Tok  Token
	Lit  string
	Kind LitKind
	Pos  Pos
}

func (t TokenInfo) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Tok, t.Lit)
}

// LexError is a lexical error.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Tokenize scans the whole script. The returned slice always ends with a
// single EOF token. The first lexical error aborts tokenization.
func Tokenize(filename string, src io.Reader) ([]TokenInfo, error) {
	var first *LexError
	errh := func(line, col uint32, msg string) {
		if first == nil {
			first = &LexError{Pos: NewPos(filename, line, col), Msg: msg}
		}
	}

	s := NewScanner(filename, src, errh)
	var toks []TokenInfo
	for {
		s.Next()
		if first != nil {
			return nil, first
		}
		toks = append(toks, TokenInfo{Tok: s.tok, Lit: s.lit, Kind: s.kind, Pos: s.tokPos})
		if s.tok == _EOF {
			return toks, nil
		}
	}
}
