// Filename: python/stmt.go
// Statement lowering. Each buildStmt case maps one tree-sitter node type to
// zero or more IR statements; desugaring (elif chains, chained assignment)
// happens here so the IR stays small.
package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/molt-dev/molt/internal/ir"
)

// builder lowers tree-sitter nodes against one source buffer.
type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string { return n.Content(b.src) }

func (b *builder) buildBlock(node *sitter.Node, fn *ir.Function) (*ir.Block, error) {
	block := ir.NewBlock()
	if node == nil {
		return block, nil
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		stmts, err := b.buildStmt(node.NamedChild(i), fn)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmts...)
	}
	return block, nil
}

func (b *builder) buildStmt(node *sitter.Node, fn *ir.Function) ([]ir.Statement, error) {
	sp := spanOf(node)
	switch node.Type() {
	case "expression_statement":
		return b.buildExprStatement(node, fn)

	case "if_statement":
		stmt, err := b.buildIf(node, fn)
		if err != nil {
			return nil, err
		}
		return []ir.Statement{stmt}, nil

	case "while_statement":
		if node.ChildByFieldName("alternative") != nil {
			return nil, errUnsupported(node, "while-else clause")
		}
		cond, err := b.buildExpr(node.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		body, err := b.buildBlock(node.ChildByFieldName("body"), fn)
		if err != nil {
			return nil, err
		}
		return []ir.Statement{ir.NewWhile(sp, cond, body)}, nil

	case "for_statement":
		return b.buildFor(node, fn)

	case "try_statement":
		stmt, err := b.buildTry(node, fn)
		if err != nil {
			return nil, err
		}
		return []ir.Statement{stmt}, nil

	case "with_statement":
		return b.buildWith(node, fn)

	case "return_statement":
		var value ir.Expr
		if node.NamedChildCount() > 0 {
			var err error
			value, err = b.buildExpr(node.NamedChild(0))
			if err != nil {
				return nil, err
			}
		}
		return []ir.Statement{ir.NewReturn(sp, value)}, nil

	case "raise_statement":
		if node.ChildByFieldName("cause") != nil {
			return nil, errUnsupported(node, "raise-from clause")
		}
		var value ir.Expr
		if node.NamedChildCount() > 0 {
			var err error
			value, err = b.buildExpr(node.NamedChild(0))
			if err != nil {
				return nil, err
			}
		}
		return []ir.Statement{ir.NewThrow(sp, value)}, nil

	case "break_statement":
		return []ir.Statement{ir.NewBreak(sp)}, nil

	case "continue_statement":
		return []ir.Statement{ir.NewContinue(sp)}, nil

	case "pass_statement":
		return nil, nil

	case "global_statement", "nonlocal_statement":
		// The named variables belong to an enclosing scope; recording them
		// keeps the hoisting pass away from them.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			fn.Declared.Add(b.text(node.NamedChild(i)))
		}
		return nil, nil

	case "function_definition":
		inner, err := b.buildLocalFunc(node)
		if err != nil {
			return nil, err
		}
		return []ir.Statement{ir.NewLocalFunc(sp, inner)}, nil

	case "comment":
		text := strings.TrimSpace(strings.TrimPrefix(b.text(node), "#"))
		return []ir.Statement{ir.NewComment(sp, text)}, nil

	default:
		return nil, errUnsupported(node, construct(node.Type()))
	}
}

// buildExprStatement handles everything tree-sitter wraps in an
// expression_statement: assignments, augmented assignments, yields, bare
// calls, and docstrings.
func (b *builder) buildExprStatement(node *sitter.Node, fn *ir.Function) ([]ir.Statement, error) {
	if node.NamedChildCount() != 1 {
		return nil, errUnsupported(node, "expression list statement")
	}
	inner := node.NamedChild(0)
	sp := spanOf(inner)

	switch inner.Type() {
	case "assignment":
		return b.buildAssignment(inner)

	case "augmented_assignment":
		target, err := b.buildExpr(inner.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(inner.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		op := b.text(inner.ChildByFieldName("operator"))
		if op == "//=" || op == "**=" || op == "@=" {
			return nil, errUnsupported(inner, "augmented assignment operator "+op)
		}
		return []ir.Statement{ir.NewAugAssign(sp, target, op, value)}, nil

	case "yield":
		fn.Yields = true
		var value ir.Expr
		if inner.NamedChildCount() > 0 {
			var err error
			value, err = b.buildExpr(inner.NamedChild(0))
			if err != nil {
				return nil, err
			}
		}
		return []ir.Statement{ir.NewYield(sp, value)}, nil

	case "string":
		// A bare string statement is a docstring; drop it as trivia.
		return nil, nil

	default:
		x, err := b.buildExpr(inner)
		if err != nil {
			return nil, err
		}
		return []ir.Statement{ir.NewExprStmt(sp, x)}, nil
	}
}

// buildAssignment lowers `a = e` and the chained form `a = b = e`, which
// desugars into `a = e; b = a;` so the value is evaluated once.
func (b *builder) buildAssignment(node *sitter.Node) ([]ir.Statement, error) {
	if node.ChildByFieldName("type") != nil {
		return nil, errUnsupported(node, "annotated assignment")
	}

	var targets []*sitter.Node
	right := node
	for right.Type() == "assignment" {
		targets = append(targets, right.ChildByFieldName("left"))
		right = right.ChildByFieldName("right")
		if right == nil {
			return nil, errUnsupported(node, "assignment without value")
		}
	}

	value, err := b.buildExpr(right)
	if err != nil {
		return nil, err
	}

	if len(targets) > 1 && targets[0].Type() != "identifier" {
		return nil, errUnsupported(targets[0], "chained assignment to pattern")
	}
	first, err := b.buildTarget(targets[0])
	if err != nil {
		return nil, err
	}
	out := []ir.Statement{ir.NewAssign(spanOf(targets[0]), first, value)}
	for _, t := range targets[1:] {
		target, err := b.buildTarget(t)
		if err != nil {
			return nil, err
		}
		source, err := b.buildTarget(targets[0])
		if err != nil {
			return nil, err
		}
		out = append(out, ir.NewAssign(spanOf(t), target, source))
	}
	return out, nil
}

// buildTarget lowers an assignment target: a bare name, an attribute, a
// subscript, or a destructuring tuple of names.
func (b *builder) buildTarget(node *sitter.Node) (ir.Expr, error) {
	switch node.Type() {
	case "identifier", "attribute", "subscript":
		return b.buildExpr(node)
	case "tuple", "pattern_list", "expression_list":
		elems := make([]ir.Expr, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() != "identifier" {
				return nil, errUnsupported(child, "destructuring target "+construct(child.Type()))
			}
			elems = append(elems, ir.NewName(spanOf(child), b.text(child)))
		}
		return ir.NewTuple(spanOf(node), elems), nil
	default:
		return nil, errUnsupported(node, "assignment target "+construct(node.Type()))
	}
}

// buildIf lowers an if/elif/else chain into nested conditionals: each elif
// becomes an if statement alone in the previous else block.
func (b *builder) buildIf(node *sitter.Node, fn *ir.Function) (ir.Statement, error) {
	cond, err := b.buildExpr(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(node.ChildByFieldName("consequence"), fn)
	if err != nil {
		return nil, err
	}

	var clauses []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "elif_clause" || child.Type() == "else_clause" {
			clauses = append(clauses, child)
		}
	}
	els, err := b.buildElse(clauses, fn)
	if err != nil {
		return nil, err
	}
	return ir.NewIf(spanOf(node), cond, then, els), nil
}

func (b *builder) buildElse(clauses []*sitter.Node, fn *ir.Function) (*ir.Block, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	head := clauses[0]
	if head.Type() == "else_clause" {
		return b.buildBlock(head.ChildByFieldName("body"), fn)
	}

	cond, err := b.buildExpr(head.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(head.ChildByFieldName("consequence"), fn)
	if err != nil {
		return nil, err
	}
	rest, err := b.buildElse(clauses[1:], fn)
	if err != nil {
		return nil, err
	}
	return ir.NewBlock(ir.NewIf(spanOf(head), cond, then, rest)), nil
}

func (b *builder) buildFor(node *sitter.Node, fn *ir.Function) ([]ir.Statement, error) {
	if node.Child(0) != nil && node.Child(0).Type() == "async" {
		return nil, errUnsupported(node, "async for loop")
	}
	if node.ChildByFieldName("alternative") != nil {
		return nil, errUnsupported(node, "for-else clause")
	}
	target, err := b.buildTarget(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	iter, err := b.buildExpr(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	body, err := b.buildBlock(node.ChildByFieldName("body"), fn)
	if err != nil {
		return nil, err
	}
	return []ir.Statement{ir.NewForEach(spanOf(node), target, iter, body)}, nil
}

func (b *builder) buildTry(node *sitter.Node, fn *ir.Function) (ir.Statement, error) {
	body, err := b.buildBlock(node.ChildByFieldName("body"), fn)
	if err != nil {
		return nil, err
	}

	var handlers []*ir.Catch
	var finally *ir.Block
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "except_clause":
			h, err := b.buildExcept(child, fn)
			if err != nil {
				return nil, err
			}
			handlers = append(handlers, h)
		case "except_group_clause":
			return nil, errUnsupported(child, "exception group handler")
		case "else_clause":
			return nil, errUnsupported(child, "try-else clause")
		case "finally_clause":
			finally, err = b.buildBlock(child.NamedChild(0), fn)
			if err != nil {
				return nil, err
			}
		}
	}
	return ir.NewTry(spanOf(node), body, handlers, finally), nil
}

// buildExcept lowers one handler. Python exception types have no C#
// counterpart, so every handler catches Exception; the bound name survives.
func (b *builder) buildExcept(node *sitter.Node, fn *ir.Function) (*ir.Catch, error) {
	catch := &ir.Catch{Type: "Exception"}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "block" {
			body, err := b.buildBlock(child, fn)
			if err != nil {
				return nil, err
			}
			catch.Body = body
			continue
		}
		// The first non-block child is the caught type expression, with an
		// optional `as name` alias appearing as a second identifier child.
		if child.Type() == "as_pattern" {
			alias := child.ChildByFieldName("alias")
			if alias == nil || alias.NamedChildCount() == 0 {
				return nil, errUnsupported(child, "except alias pattern")
			}
			catch.Name = b.text(alias.NamedChild(0))
			continue
		}
		if catch.Name == "" && child.Type() == "identifier" && i > 0 {
			catch.Name = b.text(child)
		}
	}
	if catch.Body == nil {
		catch.Body = ir.NewBlock()
	}
	return catch, nil
}

func (b *builder) buildWith(node *sitter.Node, fn *ir.Function) ([]ir.Statement, error) {
	if node.Child(0) != nil && node.Child(0).Type() == "async" {
		return nil, errUnsupported(node, "async with statement")
	}

	var items []ir.UsingItem
	clause := namedChildOfType(node, "with_clause")
	if clause == nil {
		return nil, errUnsupported(node, "with statement")
	}
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		item := clause.NamedChild(i)
		value := item.ChildByFieldName("value")
		if value == nil {
			return nil, errUnsupported(item, "with item")
		}
		if value.Type() == "as_pattern" {
			resource, err := b.buildExpr(value.NamedChild(0))
			if err != nil {
				return nil, err
			}
			alias := value.ChildByFieldName("alias")
			if alias == nil || alias.NamedChildCount() == 0 {
				return nil, errUnsupported(value, "with alias pattern")
			}
			target := ir.NewName(spanOf(alias), b.text(alias.NamedChild(0)))
			items = append(items, ir.UsingItem{Resource: resource, Target: target})
			continue
		}
		resource, err := b.buildExpr(value)
		if err != nil {
			return nil, err
		}
		items = append(items, ir.UsingItem{Resource: resource})
	}

	body, err := b.buildBlock(node.ChildByFieldName("body"), fn)
	if err != nil {
		return nil, err
	}
	return []ir.Statement{ir.NewUsing(spanOf(node), items, body)}, nil
}

// buildLocalFunc lowers a def nested in another function. Its body is a
// separate scope with its own declared-name set.
func (b *builder) buildLocalFunc(node *sitter.Node) (*ir.Function, error) {
	fn := &ir.Function{
		Name:     b.text(node.ChildByFieldName("name")),
		Declared: make(ir.NameSet),
		IsAsync:  node.Child(0) != nil && node.Child(0).Type() == "async",
		Span:     spanOf(node),
	}
	params, err := b.buildParams(node.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	fn.Params = params
	fn.Body, err = b.buildBlock(node.ChildByFieldName("body"), fn)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (b *builder) buildParams(node *sitter.Node) ([]ir.Param, error) {
	if node == nil {
		return nil, nil
	}
	var params []ir.Param
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			params = append(params, ir.Param{Name: b.text(child)})

		case "default_parameter":
			value, err := b.buildExpr(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			params = append(params, ir.Param{
				Name:    b.text(child.ChildByFieldName("name")),
				Default: value,
			})

		case "typed_parameter":
			// Annotations carry no weight in the generated code.
			name := child.NamedChild(0)
			if name == nil || name.Type() != "identifier" {
				return nil, errUnsupported(child, "typed parameter pattern")
			}
			params = append(params, ir.Param{Name: b.text(name)})

		case "typed_default_parameter":
			value, err := b.buildExpr(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			params = append(params, ir.Param{
				Name:    b.text(child.ChildByFieldName("name")),
				Default: value,
			})

		case "list_splat_pattern":
			if child.NamedChildCount() == 0 {
				return nil, errUnsupported(child, "starred parameter pattern")
			}
			params = append(params, ir.Param{
				Name:     b.text(child.NamedChild(0)),
				Variadic: true,
			})

		case "dictionary_splat_pattern":
			return nil, errUnsupported(child, "keyword argument catch-all")

		case "keyword_separator", "positional_separator":
			// Call-site markers only; nothing to declare.

		default:
			return nil, errUnsupported(child, "parameter "+construct(child.Type()))
		}
	}
	return params, nil
}

func namedChildOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// construct turns a grammar node type into readable diagnostic wording.
func construct(nodeType string) string {
	return strings.ReplaceAll(nodeType, "_", " ")
}
