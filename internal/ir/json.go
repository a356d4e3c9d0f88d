// Filename: ir/json.go
// JSON rendering of a module for the dump command. Statements and
// expressions are interface values, so each node is lowered to a map with a
// "kind" discriminator before encoding.
package ir

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeModule renders m as indented JSON.
func EncodeModule(m *Module) ([]byte, error) {
	doc := map[string]any{
		"name":    m.Name,
		"source":  m.Source,
		"imports": m.Imports,
		"globals": encodeGlobals(m.Globals),
		"funcs":   encodeFuncs(m.Funcs),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding module %q: %w", m.Name, err)
	}
	return out, nil
}

func encodeGlobals(globals []*Global) []any {
	out := make([]any, len(globals))
	for i, g := range globals {
		out[i] = map[string]any{
			"name": g.Name,
			"init": encodeExpr(g.Init),
			"span": g.Span.String(),
		}
	}
	return out
}

func encodeFuncs(funcs []*Function) []any {
	out := make([]any, len(funcs))
	for i, f := range funcs {
		doc := map[string]any{
			"name":   f.Name,
			"params": encodeParams(f.Params),
			"async":  f.IsAsync,
			"yields": f.Yields,
			"body":   encodeBlock(f.Body),
		}
		if f.Skipped {
			doc["skipped"] = f.SkipReason
		}
		out[i] = doc
	}
	return out
}

func encodeParams(params []Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		doc := map[string]any{"name": p.Name}
		if p.Default != nil {
			doc["default"] = encodeExpr(p.Default)
		}
		if p.Variadic {
			doc["variadic"] = true
		}
		out[i] = doc
	}
	return out
}

func encodeBlock(b *Block) []any {
	if b == nil {
		return nil
	}
	out := make([]any, len(b.Stmts))
	for i, s := range b.Stmts {
		out[i] = encodeStmt(s)
	}
	return out
}

func encodeStmt(s Statement) map[string]any {
	doc := map[string]any{"kind": StmtName(s), "id": s.ID()}
	switch stmt := s.(type) {
	case *Assign:
		doc["target"] = encodeExpr(stmt.Target)
		if stmt.AugOp != "" {
			doc["op"] = stmt.AugOp
		}
		doc["value"] = encodeExpr(stmt.Value)
	case *VarDecl:
		doc["name"] = stmt.Name
		doc["decl"] = stmt.Kind.String()
		if stmt.Init != nil {
			doc["init"] = encodeExpr(stmt.Init)
		}
	case *If:
		doc["cond"] = encodeExpr(stmt.Cond)
		doc["then"] = encodeBlock(stmt.Then)
		if stmt.Else != nil {
			doc["else"] = encodeBlock(stmt.Else)
		}
	case *While:
		doc["cond"] = encodeExpr(stmt.Cond)
		doc["body"] = encodeBlock(stmt.Body)
	case *DoWhile:
		doc["body"] = encodeBlock(stmt.Body)
		doc["cond"] = encodeExpr(stmt.Cond)
	case *ForEach:
		doc["target"] = encodeExpr(stmt.Target)
		doc["iter"] = encodeExpr(stmt.Iter)
		doc["body"] = encodeBlock(stmt.Body)
	case *Try:
		doc["body"] = encodeBlock(stmt.Body)
		handlers := make([]any, len(stmt.Handlers))
		for i, h := range stmt.Handlers {
			handlers[i] = map[string]any{
				"type": h.Type,
				"name": h.Name,
				"body": encodeBlock(h.Body),
			}
		}
		doc["handlers"] = handlers
		if stmt.Finally != nil {
			doc["finally"] = encodeBlock(stmt.Finally)
		}
	case *Return:
		if stmt.Value != nil {
			doc["value"] = encodeExpr(stmt.Value)
		}
	case *Throw:
		if stmt.Value != nil {
			doc["value"] = encodeExpr(stmt.Value)
		}
	case *Using:
		items := make([]any, len(stmt.Items))
		for i, item := range stmt.Items {
			entry := map[string]any{"resource": encodeExpr(item.Resource)}
			if item.Target != nil {
				entry["target"] = encodeExpr(item.Target)
			}
			items[i] = entry
		}
		doc["items"] = items
		doc["body"] = encodeBlock(stmt.Body)
	case *LocalFunc:
		doc["func"] = encodeFuncs([]*Function{stmt.Fn})[0]
	case *Comment:
		doc["text"] = stmt.Text
	case *ExprStmt:
		doc["expr"] = encodeExpr(stmt.X)
	case *Yield:
		if stmt.Value != nil {
			doc["value"] = encodeExpr(stmt.Value)
		}
	case *Break, *Continue:
		// Kind alone says everything.
	}
	return doc
}

func encodeExpr(e Expr) map[string]any {
	if e == nil {
		return nil
	}
	doc := map[string]any{"kind": ExprName(e)}
	switch expr := e.(type) {
	case *Name:
		doc["ident"] = expr.Ident
	case *AssignExpr:
		doc["target"] = encodeExpr(expr.Target)
		doc["value"] = encodeExpr(expr.Value)
	case *Call:
		doc["fn"] = encodeExpr(expr.Fn)
		args := make([]any, len(expr.Args))
		for i, a := range expr.Args {
			entry := map[string]any{"value": encodeExpr(a.Value)}
			if a.Name != "" {
				entry["name"] = a.Name
			}
			args[i] = entry
		}
		doc["args"] = args
	case *Attr:
		doc["base"] = encodeExpr(expr.Base)
		doc["field"] = expr.Field
	case *Await:
		doc["x"] = encodeExpr(expr.X)
	case *Lit:
		doc["lit"] = expr.Kind.String()
		doc["raw"] = expr.Raw
	case *Unary:
		doc["op"] = expr.Op
		doc["x"] = encodeExpr(expr.X)
	case *Binary:
		doc["op"] = expr.Op
		doc["l"] = encodeExpr(expr.L)
		doc["r"] = encodeExpr(expr.R)
	case *TypeRef:
		doc["name"] = expr.Name
	case *Index:
		doc["base"] = encodeExpr(expr.Base)
		doc["sub"] = encodeExpr(expr.Sub)
	case *Tuple:
		doc["elems"] = encodeExprs(expr.Elems)
	case *ListLit:
		doc["elems"] = encodeExprs(expr.Elems)
	case *SetLit:
		doc["elems"] = encodeExprs(expr.Elems)
	case *DictLit:
		pairs := make([]any, len(expr.Pairs))
		for i, p := range expr.Pairs {
			pairs[i] = map[string]any{"key": encodeExpr(p.Key), "value": encodeExpr(p.Value)}
		}
		doc["pairs"] = pairs
	case *Ternary:
		doc["cond"] = encodeExpr(expr.Cond)
		doc["then"] = encodeExpr(expr.Then)
		doc["else"] = encodeExpr(expr.Else)
	case *Lambda:
		doc["params"] = expr.Params
		doc["body"] = encodeExpr(expr.Body)
	case *This:
		// Kind alone says everything.
	}
	return doc
}

func encodeExprs(elems []Expr) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = encodeExpr(e)
	}
	return out
}
