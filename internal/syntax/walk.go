package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *DeclStmt:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *AssignStmt:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *RepeatStmt:
		Walk(n.Count, v)
		Walk(n.Body, v)

	case *WhenStmt:
		if n.Idle != nil {
			Walk(n.Idle, v)
		}
		Walk(n.Body, v)

	case *ReturnStmt:
		Walk(n.Result, v)

	case *ArrayLit:
		for _, e := range n.Elems {
			Walk(e, v)
		}

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CondExpr:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *GenExpr:
		Walk(n.Width, v)
		Walk(n.Height, v)
		if n.Bind != nil {
			Walk(n.Bind, v)
		}
		Walk(n.Body, v)

	// Leaf nodes: Name, BasicLit
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
