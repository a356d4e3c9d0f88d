// Filename: python/expr.go
// Expression lowering. Literals are rewritten into target syntax here so
// the emitter can print Lit.Raw verbatim; operators keep their source
// spelling and the emitter owns the mapping.
package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/molt-dev/molt/internal/ir"
)

func (b *builder) buildExpr(node *sitter.Node) (ir.Expr, error) {
	sp := spanOf(node)
	switch node.Type() {
	case "identifier":
		return ir.NewName(sp, b.text(node)), nil

	case "true":
		return ir.NewLit(sp, ir.LitBool, "true"), nil
	case "false":
		return ir.NewLit(sp, ir.LitBool, "false"), nil
	case "none":
		return ir.NewNone(sp), nil
	case "integer":
		return ir.NewLit(sp, ir.LitInt, b.text(node)), nil
	case "float":
		return ir.NewLit(sp, ir.LitFloat, b.text(node)), nil

	case "string":
		return b.buildString(node)

	case "binary_operator":
		return b.buildBinary(node,
			node.ChildByFieldName("left"),
			b.text(node.ChildByFieldName("operator")),
			node.ChildByFieldName("right"))

	case "boolean_operator":
		return b.buildBinary(node,
			node.ChildByFieldName("left"),
			b.text(node.ChildByFieldName("operator")),
			node.ChildByFieldName("right"))

	case "comparison_operator":
		return b.buildComparison(node)

	case "not_operator":
		x, err := b.buildExpr(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(sp, "not", x), nil

	case "unary_operator":
		x, err := b.buildExpr(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(sp, b.text(node.ChildByFieldName("operator")), x), nil

	case "attribute":
		base, err := b.buildExpr(node.ChildByFieldName("object"))
		if err != nil {
			return nil, err
		}
		return ir.NewAttr(sp, base, b.text(node.ChildByFieldName("attribute"))), nil

	case "subscript":
		if namedChildOfType(node, "slice") != nil {
			return nil, errUnsupported(node, "slice expression")
		}
		base, err := b.buildExpr(node.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		sub, err := b.buildExpr(node.ChildByFieldName("subscript"))
		if err != nil {
			return nil, err
		}
		return ir.NewIndex(sp, base, sub), nil

	case "call":
		return b.buildCall(node)

	case "named_expression":
		name := node.ChildByFieldName("name")
		value, err := b.buildExpr(node.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		return ir.NewAssignExpr(sp, ir.NewName(spanOf(name), b.text(name)), value), nil

	case "await":
		if node.NamedChildCount() == 0 {
			return nil, errUnsupported(node, "await expression")
		}
		x, err := b.buildExpr(node.NamedChild(0))
		if err != nil {
			return nil, err
		}
		return ir.NewAwait(sp, x), nil

	case "conditional_expression":
		// Python orders the clauses value-if-cond-else-alternative.
		if node.NamedChildCount() != 3 {
			return nil, errUnsupported(node, "conditional expression")
		}
		then, err := b.buildExpr(node.NamedChild(0))
		if err != nil {
			return nil, err
		}
		cond, err := b.buildExpr(node.NamedChild(1))
		if err != nil {
			return nil, err
		}
		els, err := b.buildExpr(node.NamedChild(2))
		if err != nil {
			return nil, err
		}
		return ir.NewTernary(sp, cond, then, els), nil

	case "lambda":
		return b.buildLambda(node)

	case "parenthesized_expression":
		if node.NamedChildCount() == 0 {
			return nil, errUnsupported(node, "empty parentheses")
		}
		return b.buildExpr(node.NamedChild(0))

	case "tuple", "expression_list":
		elems, err := b.buildExprList(node)
		if err != nil {
			return nil, err
		}
		return ir.NewTuple(sp, elems), nil

	case "list":
		elems, err := b.buildExprList(node)
		if err != nil {
			return nil, err
		}
		return ir.NewListLit(sp, elems), nil

	case "set":
		elems, err := b.buildExprList(node)
		if err != nil {
			return nil, err
		}
		return ir.NewSetLit(sp, elems), nil

	case "dictionary":
		return b.buildDict(node)

	case "list_comprehension", "set_comprehension", "dictionary_comprehension",
		"generator_expression":
		return nil, errUnsupported(node, construct(node.Type()))

	case "ellipsis":
		return nil, errUnsupported(node, "ellipsis literal")

	case "concatenated_string":
		return nil, errUnsupported(node, "implicit string concatenation")

	default:
		return nil, errUnsupported(node, construct(node.Type()))
	}
}

func (b *builder) buildBinary(node, left *sitter.Node, op string, right *sitter.Node) (ir.Expr, error) {
	l, err := b.buildExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := b.buildExpr(right)
	if err != nil {
		return nil, err
	}
	if op == "@" {
		return nil, errUnsupported(node, "matrix multiplication operator")
	}
	return ir.NewBinary(spanOf(node), op, l, r), nil
}

// buildComparison lowers a two-operand comparison. Chained comparisons
// (a < b < c) would need the middle operand evaluated once and are
// refused.
func (b *builder) buildComparison(node *sitter.Node) (ir.Expr, error) {
	if node.NamedChildCount() != 2 {
		return nil, errUnsupported(node, "chained comparison")
	}
	l, err := b.buildExpr(node.NamedChild(0))
	if err != nil {
		return nil, err
	}
	r, err := b.buildExpr(node.NamedChild(1))
	if err != nil {
		return nil, err
	}

	// The operator sits between the operands as one or two anonymous
	// tokens ("not in", "is not").
	var parts []string
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); !child.IsNamed() {
			parts = append(parts, child.Type())
		}
	}
	if len(parts) == 0 {
		return nil, errUnsupported(node, "comparison")
	}
	return ir.NewBinary(spanOf(node), strings.Join(parts, " "), l, r), nil
}

func (b *builder) buildCall(node *sitter.Node) (ir.Expr, error) {
	fn, err := b.buildExpr(node.ChildByFieldName("function"))
	if err != nil {
		return nil, err
	}

	argsNode := node.ChildByFieldName("arguments")
	if argsNode != nil && argsNode.Type() == "generator_expression" {
		return nil, errUnsupported(argsNode, "generator expression argument")
	}

	var args []ir.Arg
	if argsNode != nil {
		for i := 0; i < int(argsNode.NamedChildCount()); i++ {
			child := argsNode.NamedChild(i)
			switch child.Type() {
			case "keyword_argument":
				value, err := b.buildExpr(child.ChildByFieldName("value"))
				if err != nil {
					return nil, err
				}
				args = append(args, ir.Arg{
					Name:  b.text(child.ChildByFieldName("name")),
					Value: value,
				})
			case "list_splat", "dictionary_splat":
				return nil, errUnsupported(child, "argument unpacking")
			case "comment":
				// Inline comments in argument lists are trivia.
			default:
				value, err := b.buildExpr(child)
				if err != nil {
					return nil, err
				}
				args = append(args, ir.Arg{Value: value})
			}
		}
	}
	return ir.NewCall(spanOf(node), fn, args), nil
}

func (b *builder) buildLambda(node *sitter.Node) (ir.Expr, error) {
	var params []string
	if list := node.ChildByFieldName("parameters"); list != nil {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			child := list.NamedChild(i)
			if child.Type() != "identifier" {
				return nil, errUnsupported(child, "lambda parameter pattern")
			}
			params = append(params, b.text(child))
		}
	}
	body, err := b.buildExpr(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	return ir.NewLambda(spanOf(node), params, body), nil
}

func (b *builder) buildExprList(node *sitter.Node) ([]ir.Expr, error) {
	elems := make([]ir.Expr, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		e, err := b.buildExpr(node.NamedChild(i))
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return elems, nil
}

func (b *builder) buildDict(node *sitter.Node) (ir.Expr, error) {
	var pairs []ir.Pair
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "pair":
			key, err := b.buildExpr(child.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := b.buildExpr(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ir.Pair{Key: key, Value: value})
		case "dictionary_splat":
			return nil, errUnsupported(child, "dictionary unpacking")
		case "comment":
			// Trivia.
		default:
			return nil, errUnsupported(child, "dictionary entry "+construct(child.Type()))
		}
	}
	return ir.NewDictLit(spanOf(node), pairs), nil
}

// buildString lowers a string literal into target syntax. Plain strings
// become "..." and f-strings become interpolated $"..." with each
// interpolation lowered recursively.
func (b *builder) buildString(node *sitter.Node) (ir.Expr, error) {
	start := node.NamedChild(0)
	if start == nil || start.Type() != "string_start" {
		return nil, errUnsupported(node, "string literal")
	}
	prefix := strings.ToLower(b.text(start))
	if strings.Contains(prefix, `"""`) || strings.Contains(prefix, "'''") {
		return nil, errUnsupported(node, "triple-quoted string")
	}
	if strings.Contains(prefix, "b") {
		return nil, errUnsupported(node, "bytes literal")
	}
	if strings.Contains(prefix, "r") {
		return nil, errUnsupported(node, "raw string literal")
	}
	interpolated := strings.Contains(prefix, "f")

	var body strings.Builder
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "string_start", "string_end":
			// Quote tokens are replaced below.
		case "string_content", "escape_sequence":
			body.WriteString(escapeContent(b.text(child)))
		case "interpolation":
			if child.ChildByFieldName("format_specifier") != nil {
				return nil, errUnsupported(child, "format specifier")
			}
			if child.NamedChildCount() == 0 {
				return nil, errUnsupported(child, "interpolation")
			}
			inner, err := b.buildExpr(child.NamedChild(0))
			if err != nil {
				return nil, err
			}
			raw, ok := exprRaw(inner)
			if !ok {
				return nil, errUnsupported(child, "interpolation expression")
			}
			body.WriteString("{" + raw + "}")
		default:
			return nil, errUnsupported(child, "string part "+construct(child.Type()))
		}
	}

	raw := `"` + body.String() + `"`
	if interpolated {
		raw = "$" + raw
	}
	return ir.NewLit(spanOf(node), ir.LitString, raw), nil
}

// escapeContent adapts Python string content to C# escaping rules: a
// single quote needs no escape and a double quote always does.
func escapeContent(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			out.WriteString(`\"`)
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// exprRaw renders the small expression subset allowed inside an
// interpolation hole. Anything richer reports false and fails the string.
func exprRaw(e ir.Expr) (string, bool) {
	switch expr := e.(type) {
	case *ir.Name:
		return expr.Ident, true
	case *ir.Lit:
		return expr.Raw, true
	case *ir.Attr:
		base, ok := exprRaw(expr.Base)
		return base + "." + expr.Field, ok
	case *ir.Index:
		base, ok := exprRaw(expr.Base)
		sub, ok2 := exprRaw(expr.Sub)
		return base + "[" + sub + "]", ok && ok2
	case *ir.Binary:
		l, ok := exprRaw(expr.L)
		r, ok2 := exprRaw(expr.R)
		return "(" + l + " " + expr.Op + " " + r + ")", ok && ok2
	case *ir.Call:
		fn, ok := exprRaw(expr.Fn)
		if !ok {
			return "", false
		}
		parts := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			if a.Name != "" {
				return "", false
			}
			arg, ok := exprRaw(a.Value)
			if !ok {
				return "", false
			}
			parts[i] = arg
		}
		return fn + "(" + strings.Join(parts, ", ") + ")", true
	default:
		return "", false
	}
}
