package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object = map[string]interface{}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return object{
			"type":  "Program",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, stmtJSON),
		}

	case *BlockStmt:
		return object{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, stmtJSON),
		}

	case *DeclStmt:
		return object{
			"type":     "DeclStmt",
			"pos":      n.pos.String(),
			"declType": n.Type.String(),
			"name":     n.Name.Value,
			"value":    toJSON(n.Value),
		}

	case *AssignStmt:
		return object{
			"type":  "AssignStmt",
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *ExprStmt:
		return object{
			"type": "ExprStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *IfStmt:
		m := object{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *RepeatStmt:
		return object{
			"type":  "RepeatStmt",
			"pos":   n.pos.String(),
			"count": toJSON(n.Count),
			"body":  toJSON(n.Body),
		}

	case *WhenStmt:
		m := object{
			"type":  "WhenStmt",
			"pos":   n.pos.String(),
			"event": n.Event.String(),
			"body":  toJSON(n.Body),
		}
		if n.Idle != nil {
			m["idle"] = toJSON(n.Idle)
		}
		return m

	case *ReturnStmt:
		return object{
			"type":   "ReturnStmt",
			"pos":    n.pos.String(),
			"result": toJSON(n.Result),
		}

	case *Name:
		return object{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		return object{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *ArrayLit:
		return object{
			"type":  "ArrayLit",
			"pos":   n.pos.String(),
			"elems": mapSlice(n.Elems, exprJSON),
		}

	case *Operation:
		m := object{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}
		if n.Y != nil {
			m["y"] = toJSON(n.Y)
		}
		return m

	case *CondExpr:
		return object{
			"type": "CondExpr",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"else": toJSON(n.Else),
		}

	case *CallExpr:
		return object{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"fun":  toJSON(n.Fun),
			"args": mapSlice(n.Args, exprJSON),
		}

	case *IndexExpr:
		return object{
			"type":  "IndexExpr",
			"pos":   n.pos.String(),
			"x":     toJSON(n.X),
			"index": toJSON(n.Index),
		}

	case *ParenExpr:
		return object{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *GenExpr:
		m := object{
			"type":   "GenExpr",
			"pos":    n.pos.String(),
			"kind":   n.Kind.String(),
			"width":  toJSON(n.Width),
			"height": toJSON(n.Height),
			"body":   toJSON(n.Body),
		}
		if n.Bind != nil {
			m["bind"] = n.Bind.Value
		}
		return m

	default:
		return object{
			"type": "Unknown",
		}
	}
}

func stmtJSON(s Stmt) interface{} { return toJSON(s) }
func exprJSON(e Expr) interface{} { return toJSON(e) }

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
