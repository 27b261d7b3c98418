package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. A Program is the
// root. All nodes implement the Node interface.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program

// Program is a parsed script: an ordered list of top-level statements.
type Program struct {
	node
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents a number or string literal.
type BasicLit struct {
	expr
	Value string  // literal text (decoded for strings)
	Kind  LitKind // NumberLit or StringLit
}

// ArrayLit represents an array literal: [Elems...]
type ArrayLit struct {
	expr
	Elems []Expr
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil.
type Operation struct {
	expr
	Op Token // operator token
	X  Expr  // left operand (or only operand for unary)
	Y  Expr  // right operand (nil for unary)
}

// CondExpr represents a conditional expression: Cond ? Then : Else
type CondExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// IndexExpr represents an index expression: X[Index]
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	X Expr
}

// GenExpr represents one of the generator forms:
//
//	pattern(W, H) { Body }
//	animate(W, H) using Bind { Body }
//	evolve(W, H) from Bind { Body }
//
// Kind is KwPattern, KwAnimate or KwEvolve. Bind is nil for pattern.
type GenExpr struct {
	expr
	Kind   Token
	Width  Expr
	Height Expr
	Bind   *Name
	Body   *BlockStmt
}

// ----------------------------------------------------------------------------
// Statements

// DeclStmt represents a typed declaration: frame|frames|num|text Name = Value
type DeclStmt struct {
	stmt
	Type  Token // KwFrame, KwFrames, KwNum or KwText
	Name  *Name
	Value Expr
}

// AssignStmt represents an assignment: Name = Value
type AssignStmt struct {
	stmt
	Name  *Name
	Value Expr
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt is a statement list. It is the body of if/repeat/when
// statements and of generator expressions.
type BlockStmt struct {
	stmt
	Stmts []Stmt
	End   Pos // position of the terminating token
}

// IfStmt represents: if Cond then Then [elsif ... | else Else] end
// An elsif chain is an *IfStmt in Else.
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil, *IfStmt, or *BlockStmt
}

// RepeatStmt represents: repeat Count times do Body end
type RepeatStmt struct {
	stmt
	Count Expr
	Body  *BlockStmt
}

// EventKind identifies the trigger of a when statement.
type EventKind uint8

const (
	EventClicked EventKind = iota // when clicked
	EventIdle                     // when idle > N
)

func (k EventKind) String() string {
	if k == EventIdle {
		return "idle"
	}
	return "clicked"
}

// WhenStmt represents: when clicked do Body end, or when idle > Idle do Body end
type WhenStmt struct {
	stmt
	Event EventKind
	Idle  Expr // idle threshold in milliseconds (nil for clicked)
	Body  *BlockStmt
}

// ReturnStmt represents: return Result
type ReturnStmt struct {
	stmt
	Result Expr
}
