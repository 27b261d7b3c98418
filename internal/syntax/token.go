// Package syntax implements lexical and syntactic analysis for Gizmo scripts.
package syntax

import (
	"fmt"
	"sort"
)

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF     Token = iota // end of input
	_Newline              // significant line break

	// Literals
	_Name    // identifier: sprite, row, add_frame
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =

	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	_Add // +
	_Sub // -

	_Mul // *
	_Div // /
	_Rem // %

	_Pow // ^

	// Delimiters
	_Lparen   // (
	_Rparen   // )
	_Lbrack   // [
	_Rbrack   // ]
	_Lbrace   // {
	_Rbrace   // }
	_Comma    // ,
	_Semi     // ;
	_Colon    // :
	_Question // ?

	// Keywords
	_Frame
	_Frames
	_Num
	_Text
	_Pattern
	_Animate
	_Evolve
	_Using
	_From
	_If
	_Then
	_Elsif
	_Else
	_End
	_Repeat
	_Do
	_Times
	_When
	_Clicked
	_Idle
	_Return
	_And
	_Or
	_Not

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:     "EOF",
	_Newline: "newline",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",

	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Pow: "^",

	_Lparen:   "(",
	_Rparen:   ")",
	_Lbrack:   "[",
	_Rbrack:   "]",
	_Lbrace:   "{",
	_Rbrace:   "}",
	_Comma:    ",",
	_Semi:     ";",
	_Colon:    ":",
	_Question: "?",

	_Frame:   "frame",
	_Frames:  "frames",
	_Num:     "num",
	_Text:    "text",
	_Pattern: "pattern",
	_Animate: "animate",
	_Evolve:  "evolve",
	_Using:   "using",
	_From:    "from",
	_If:      "if",
	_Then:    "then",
	_Elsif:   "elsif",
	_Else:    "else",
	_End:     "end",
	_Repeat:  "repeat",
	_Do:      "do",
	_Times:   "times",
	_When:    "when",
	_Clicked: "clicked",
	_Idle:    "idle",
	_Return:  "return",
	_And:     "and",
	_Or:      "or",
	_Not:     "not",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding power of binary operators.
// Returns 0 for non-operators.
//
//	1: or
//	2: and
//	3: == !=
//	4: < <= > >=
//	5: + -
//	6: * / %
//	7: ^ (right-associative)
//
// The ternary operator binds looser than all of these and is handled
// separately by the parser.
func (t Token) Precedence() int {
	switch t {
	case _Or:
		return 1
	case _And:
		return 2
	case _Eql, _Neq:
		return 3
	case _Lss, _Leq, _Gtr, _Geq:
		return 4
	case _Add, _Sub:
		return 5
	case _Mul, _Div, _Rem:
		return 6
	case _Pow:
		return 7
	}
	return 0
}

// RightAssoc reports whether the binary operator t groups to the right.
func (t Token) RightAssoc() bool {
	return t == _Pow
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Frame && t <= _Not
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Pow
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsDeclKeyword reports whether t starts a typed declaration.
func (t Token) IsDeclKeyword() bool {
	switch t {
	case _Frame, _Frames, _Num, _Text:
		return true
	}
	return false
}

// Exported tokens for the interpreter.
const (
	Add Token = _Add
	Sub Token = _Sub
	Mul Token = _Mul
	Div Token = _Div
	Rem Token = _Rem
	Pow Token = _Pow

	Eql Token = _Eql
	Neq Token = _Neq
	Lss Token = _Lss
	Leq Token = _Leq
	Gtr Token = _Gtr
	Geq Token = _Geq

	And Token = _And
	Or  Token = _Or
	Not Token = _Not

	KwFrame  Token = _Frame
	KwFrames Token = _Frames
	KwNum    Token = _Num
	KwText   Token = _Text

	KwPattern Token = _Pattern
	KwAnimate Token = _Animate
	KwEvolve  Token = _Evolve
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	NumberLit LitKind = iota // 42, 3.5
	StringLit                // "hello", "line\n"
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	NumberLit: "number",
	StringLit: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Note: play, loop, stop, true and false are NOT keywords. They scan as _Name;
// the interpreter intercepts the call names and predeclares the constants.
var keywords = map[string]Token{
	"frame":   _Frame,
	"frames":  _Frames,
	"num":     _Num,
	"text":    _Text,
	"pattern": _Pattern,
	"animate": _Animate,
	"evolve":  _Evolve,
	"using":   _Using,
	"from":    _From,
	"if":      _If,
	"then":    _Then,
	"elsif":   _Elsif,
	"else":    _Else,
	"end":     _End,
	"repeat":  _Repeat,
	"do":      _Do,
	"times":   _Times,
	"when":    _When,
	"clicked": _Clicked,
	"idle":    _Idle,
	"return":  _Return,
	"and":     _And,
	"or":      _Or,
	"not":     _Not,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Keywords returns the reserved words, sorted.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for k := range keywords {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
