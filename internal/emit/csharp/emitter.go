// Filename: csharp/emitter.go
// The code printer: serializes a hoisted IR module as C#. Inserted and
// rewritten declarations are rendered like any other statement; the
// declaration kind picks the annotation ("var" defers to C# inference,
// "object" is the explicit absent-capable type).
package csharp

import (
	"fmt"
	"strings"

	"github.com/molt-dev/molt/internal/ir"
)

// Emitter prints one module per call. The zero value is not usable; build
// instances with New.
type Emitter struct {
	namespace string

	b      strings.Builder
	indent int
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithNamespace overrides the namespace the generated class is placed in.
func WithNamespace(ns string) Option {
	return func(e *Emitter) {
		if ns != "" {
			e.namespace = ns
		}
	}
}

// New builds an Emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{namespace: "Molt.Generated"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmitModule renders m as a single C# source file: a static class holding
// one static field per module global and one static method per function.
func (e *Emitter) EmitModule(m *ir.Module) (string, error) {
	e.b.Reset()
	e.indent = 0

	e.line("// Code generated by molt from %s. DO NOT EDIT.", m.Source)
	for _, imp := range m.Imports {
		e.line("// source import: %s", imp)
	}
	e.line("")
	e.line("namespace %s;", e.namespace)
	e.line("")
	e.line("public static class %s", m.Name)
	e.open()

	for _, g := range m.Globals {
		e.line("public static object %s = %s;", g.Name, e.expr(g.Init))
	}
	if len(m.Globals) > 0 && len(m.Funcs) > 0 {
		e.line("")
	}

	for i, fn := range m.Funcs {
		if i > 0 {
			e.line("")
		}
		e.emitFunction(fn)
	}

	e.close()
	return e.b.String(), nil
}

func (e *Emitter) emitFunction(fn *ir.Function) {
	if fn.Skipped {
		e.line("// molt: function %s skipped (%s)", fn.Name, fn.SkipReason)
		return
	}

	e.line("public static %s %s(%s)", e.returnType(fn), fn.Name, e.paramList(fn.Params))
	e.open()
	e.emitBlock(fn.Body)
	if !fn.Yields && needsTrailingReturn(fn.Body) {
		e.line("return null;")
	}
	e.close()
}

func (e *Emitter) returnType(fn *ir.Function) string {
	switch {
	case fn.Yields:
		return "IEnumerable<object>"
	case fn.IsAsync:
		return "async Task<object>"
	default:
		return "object"
	}
}

func (e *Emitter) paramList(params []ir.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		switch {
		case p.Variadic:
			parts[i] = fmt.Sprintf("params object[] %s", p.Name)
		case p.Default != nil:
			parts[i] = fmt.Sprintf("object %s = %s", p.Name, e.expr(p.Default))
		default:
			parts[i] = fmt.Sprintf("object %s", p.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// needsTrailingReturn reports whether control can fall off the end of the
// body. Only the obvious cases are detected; an extra "return null" after a
// terminating loop is harmless.
func needsTrailingReturn(body *ir.Block) bool {
	if len(body.Stmts) == 0 {
		return true
	}
	switch body.Stmts[len(body.Stmts)-1].(type) {
	case *ir.Return, *ir.Throw:
		return false
	default:
		return true
	}
}

// -- Statements --

func (e *Emitter) emitBlock(b *ir.Block) {
	for _, s := range b.Stmts {
		e.emitStmt(s)
	}
}

func (e *Emitter) emitStmt(s ir.Statement) {
	switch stmt := s.(type) {
	case *ir.Assign:
		op := "="
		if stmt.AugOp != "" {
			op = stmt.AugOp
		}
		e.line("%s %s %s;", e.expr(stmt.Target), op, e.expr(stmt.Value))

	case *ir.VarDecl:
		switch {
		case stmt.Init == nil:
			e.line("object %s = null;", stmt.Name)
		case stmt.Kind == ir.DeclObject:
			e.line("object %s = %s;", stmt.Name, e.expr(stmt.Init))
		default:
			e.line("var %s = %s;", stmt.Name, e.expr(stmt.Init))
		}

	case *ir.If:
		e.line("if (%s)", e.condition(stmt.Cond))
		e.open()
		e.emitBlock(stmt.Then)
		e.close()
		if stmt.Else != nil {
			e.line("else")
			e.open()
			e.emitBlock(stmt.Else)
			e.close()
		}

	case *ir.While:
		e.line("while (%s)", e.condition(stmt.Cond))
		e.open()
		e.emitBlock(stmt.Body)
		e.close()

	case *ir.DoWhile:
		e.line("do")
		e.open()
		e.emitBlock(stmt.Body)
		e.closeWith(fmt.Sprintf("} while (%s);", e.condition(stmt.Cond)))

	case *ir.ForEach:
		e.line("foreach (var %s in (dynamic)%s)", e.loopTarget(stmt.Target), e.expr(stmt.Iter))
		e.open()
		e.emitBlock(stmt.Body)
		e.close()

	case *ir.Try:
		e.line("try")
		e.open()
		e.emitBlock(stmt.Body)
		e.close()
		for _, h := range stmt.Handlers {
			e.line("%s", catchClause(h))
			e.open()
			e.emitBlock(h.Body)
			e.close()
		}
		if stmt.Finally != nil {
			e.line("finally")
			e.open()
			e.emitBlock(stmt.Finally)
			e.close()
		}

	case *ir.Break:
		e.line("break;")

	case *ir.Continue:
		e.line("continue;")

	case *ir.Return:
		if stmt.Value == nil {
			e.line("return null;")
		} else {
			e.line("return %s;", e.expr(stmt.Value))
		}

	case *ir.Throw:
		if stmt.Value == nil {
			e.line("throw;")
		} else {
			e.line("throw new Exception(Convert.ToString(%s));", e.expr(stmt.Value))
		}

	case *ir.Using:
		for _, item := range stmt.Items {
			if item.Target != nil {
				e.line("using (var %s = (dynamic)%s)", e.expr(item.Target), e.expr(item.Resource))
			} else {
				e.line("using ((IDisposable)%s)", e.expr(item.Resource))
			}
		}
		e.open()
		e.emitBlock(stmt.Body)
		e.close()

	case *ir.LocalFunc:
		fn := stmt.Fn
		ret := "object"
		if fn.IsAsync {
			ret = "async Task<object>"
		}
		e.line("%s %s(%s)", ret, fn.Name, e.paramList(fn.Params))
		e.open()
		e.emitBlock(fn.Body)
		if needsTrailingReturn(fn.Body) {
			e.line("return null;")
		}
		e.close()

	case *ir.Comment:
		e.line("// %s", stmt.Text)

	case *ir.ExprStmt:
		e.line("%s;", e.expr(stmt.X))

	case *ir.Yield:
		if stmt.Value == nil {
			e.line("yield return null;")
		} else {
			e.line("yield return %s;", e.expr(stmt.Value))
		}

	default:
		panic("molt: unhandled statement kind " + ir.StmtName(s))
	}
}

// loopTarget renders a foreach binding, covering tuple unpacking.
func (e *Emitter) loopTarget(target ir.Expr) string {
	if tuple, ok := target.(*ir.Tuple); ok {
		parts := make([]string, len(tuple.Elems))
		for i, el := range tuple.Elems {
			parts[i] = e.expr(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return e.expr(target)
}

func catchClause(h *ir.Catch) string {
	switch {
	case h.Type == "":
		return "catch"
	case h.Name == "":
		return fmt.Sprintf("catch (%s)", h.Type)
	default:
		return fmt.Sprintf("catch (%s %s)", h.Type, h.Name)
	}
}

// -- Expressions --

// condition renders a statement test. Everything is object-typed, so the
// truthiness helper stands in for Python's bool coercion, except when the
// test already is a comparison.
func (e *Emitter) condition(cond ir.Expr) string {
	if bin, ok := cond.(*ir.Binary); ok && isComparison(bin.Op) {
		return e.expr(cond)
	}
	return fmt.Sprintf("Runtime.Truthy(%s)", e.expr(cond))
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "is", "is not":
		return true
	default:
		return false
	}
}

func (e *Emitter) expr(x ir.Expr) string {
	switch expr := x.(type) {
	case *ir.Name:
		return expr.Ident

	case *ir.AssignExpr:
		return fmt.Sprintf("(%s = %s)", e.expr(expr.Target), e.expr(expr.Value))

	case *ir.Call:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			if a.Name != "" {
				args[i] = fmt.Sprintf("%s: %s", a.Name, e.expr(a.Value))
			} else {
				args[i] = e.expr(a.Value)
			}
		}
		return fmt.Sprintf("%s(%s)", e.expr(expr.Fn), strings.Join(args, ", "))

	case *ir.Attr:
		return fmt.Sprintf("%s.%s", e.receiver(expr.Base), expr.Field)

	case *ir.Await:
		return fmt.Sprintf("await (dynamic)%s", e.expr(expr.X))

	case *ir.Lit:
		return expr.Raw

	case *ir.Unary:
		op := expr.Op
		if op == "not" {
			return fmt.Sprintf("!Runtime.Truthy(%s)", e.expr(expr.X))
		}
		return fmt.Sprintf("%s%s", op, e.expr(expr.X))

	case *ir.Binary:
		return e.binary(expr)

	case *ir.This:
		return "this"

	case *ir.TypeRef:
		return expr.Name

	case *ir.Index:
		return fmt.Sprintf("%s[%s]", e.receiver(expr.Base), e.expr(expr.Sub))

	case *ir.Tuple:
		return fmt.Sprintf("(%s)", e.exprList(expr.Elems))

	case *ir.ListLit:
		return fmt.Sprintf("new List<object> { %s }", e.exprList(expr.Elems))

	case *ir.SetLit:
		return fmt.Sprintf("new HashSet<object> { %s }", e.exprList(expr.Elems))

	case *ir.DictLit:
		pairs := make([]string, len(expr.Pairs))
		for i, p := range expr.Pairs {
			pairs[i] = fmt.Sprintf("{ %s, %s }", e.expr(p.Key), e.expr(p.Value))
		}
		return fmt.Sprintf("new Dictionary<object, object> { %s }", strings.Join(pairs, ", "))

	case *ir.Ternary:
		return fmt.Sprintf("(Runtime.Truthy(%s) ? %s : %s)",
			e.expr(expr.Cond), e.expr(expr.Then), e.expr(expr.Else))

	case *ir.Lambda:
		return fmt.Sprintf("(%s) => %s", strings.Join(expr.Params, ", "), e.expr(expr.Body))

	default:
		panic("molt: unhandled expression kind " + ir.ExprName(x))
	}
}

// binary owns the operator translation for shapes with no direct C#
// equivalent.
func (e *Emitter) binary(expr *ir.Binary) string {
	l, r := expr.L, expr.R
	switch expr.Op {
	case "and":
		return fmt.Sprintf("(Runtime.Truthy(%s) && Runtime.Truthy(%s))", e.expr(l), e.expr(r))
	case "or":
		return fmt.Sprintf("(Runtime.Truthy(%s) || Runtime.Truthy(%s))", e.expr(l), e.expr(r))
	case "**":
		return fmt.Sprintf("Math.Pow((dynamic)%s, (dynamic)%s)", e.expr(l), e.expr(r))
	case "in":
		return fmt.Sprintf("%s.Contains(%s)", e.receiver(r), e.expr(l))
	case "not in":
		return fmt.Sprintf("!%s.Contains(%s)", e.receiver(r), e.expr(l))
	case "is":
		return fmt.Sprintf("(%s == %s)", e.expr(l), e.expr(r))
	case "is not":
		return fmt.Sprintf("(%s != %s)", e.expr(l), e.expr(r))
	case "//":
		return fmt.Sprintf("Math.Floor((dynamic)%s / (dynamic)%s)", e.expr(l), e.expr(r))
	default:
		return fmt.Sprintf("(%s %s %s)", e.expr(l), expr.Op, e.expr(r))
	}
}

// receiver renders the base of a member access, parenthesized when the base
// is itself compound.
func (e *Emitter) receiver(x ir.Expr) string {
	switch x.(type) {
	case *ir.Name, *ir.Attr, *ir.Call, *ir.Index, *ir.This, *ir.TypeRef:
		return e.expr(x)
	default:
		return fmt.Sprintf("((dynamic)%s)", e.expr(x))
	}
}

func (e *Emitter) exprList(elems []ir.Expr) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = e.expr(el)
	}
	return strings.Join(parts, ", ")
}

// -- Layout helpers --

func (e *Emitter) line(format string, args ...any) {
	rendered := fmt.Sprintf(format, args...)
	// Separator lines stay truly empty, no trailing indentation.
	if rendered != "" {
		for i := 0; i < e.indent; i++ {
			e.b.WriteString("    ")
		}
		e.b.WriteString(rendered)
	}
	e.b.WriteByte('\n')
}

func (e *Emitter) open() {
	e.line("{")
	e.indent++
}

func (e *Emitter) close() {
	e.indent--
	e.line("}")
}

func (e *Emitter) closeWith(text string) {
	e.indent--
	e.line("%s", text)
}
