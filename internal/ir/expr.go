// Filename: ir/expr.go
package ir

import "fmt"

// LitKind discriminates literal values. The hoisting pass only cares about
// LitNone; the emitter prints Raw verbatim for all kinds.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitNone:
		return "none"
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	default:
		return fmt.Sprintf("LitKind(%d)", uint8(k))
	}
}

// Name is a bare variable reference.
type Name struct {
	node
	Ident string
}

// AssignExpr is an assignment evaluated for its value inside a larger
// expression (Python's walrus operator).
type AssignExpr struct {
	node
	Target Expr
	Value  Expr
}

// Call applies Fn to Args.
type Call struct {
	node
	Fn   Expr
	Args []Arg
}

// Arg is one call argument; Name is set for keyword arguments.
type Arg struct {
	Name  string
	Value Expr
}

// Attr is field access: Base.Field.
type Attr struct {
	node
	Base  Expr
	Field string
}

// Await suspends on X.
type Await struct {
	node
	X Expr
}

// Lit is a literal. Raw holds the target-syntax token ("null", "true",
// "42", "\"hi\"", "$\"x={x}\""), produced by the frontend.
type Lit struct {
	node
	Kind LitKind
	Raw  string
}

// Unary applies Op to X.
type Unary struct {
	node
	Op string
	X  Expr
}

// Binary applies Op to L and R. Op keeps the source spelling for operators
// with no direct target equivalent ("in", "is", "**"); the emitter owns the
// mapping.
type Binary struct {
	node
	Op string
	L  Expr
	R  Expr
}

// This is the receiver reference.
type This struct{ node }

// TypeRef names a type in expression position.
type TypeRef struct {
	node
	Name string
}

// Index is subscript access: Base[Sub].
type Index struct {
	node
	Base Expr
	Sub  Expr
}

// Tuple is a fixed-arity value group, also used as a destructuring target.
type Tuple struct {
	node
	Elems []Expr
}

// ListLit is a list display.
type ListLit struct {
	node
	Elems []Expr
}

// SetLit is a set display.
type SetLit struct {
	node
	Elems []Expr
}

// DictLit is a dict display.
type DictLit struct {
	node
	Pairs []Pair
}

// Pair is one dict entry.
type Pair struct {
	Key   Expr
	Value Expr
}

// Ternary is a conditional expression: Cond ? Then : Else.
type Ternary struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

// Lambda is an anonymous function. Its body is a separate scope, opaque to
// the hoisting pass.
type Lambda struct {
	node
	Params []string
	Body   Expr
}

func (*Name) exprNode()       {}
func (*AssignExpr) exprNode() {}
func (*Call) exprNode()       {}
func (*Attr) exprNode()       {}
func (*Await) exprNode()      {}
func (*Lit) exprNode()        {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*This) exprNode()       {}
func (*TypeRef) exprNode()    {}
func (*Index) exprNode()      {}
func (*Tuple) exprNode()      {}
func (*ListLit) exprNode()    {}
func (*SetLit) exprNode()     {}
func (*DictLit) exprNode()    {}
func (*Ternary) exprNode()    {}
func (*Lambda) exprNode()     {}

func NewName(sp Span, ident string) *Name {
	return &Name{node: newNode(sp), Ident: ident}
}

func NewAssignExpr(sp Span, target, value Expr) *AssignExpr {
	return &AssignExpr{node: newNode(sp), Target: target, Value: value}
}

func NewCall(sp Span, fn Expr, args []Arg) *Call {
	return &Call{node: newNode(sp), Fn: fn, Args: args}
}

func NewAttr(sp Span, base Expr, field string) *Attr {
	return &Attr{node: newNode(sp), Base: base, Field: field}
}

func NewAwait(sp Span, x Expr) *Await {
	return &Await{node: newNode(sp), X: x}
}

func NewLit(sp Span, kind LitKind, raw string) *Lit {
	return &Lit{node: newNode(sp), Kind: kind, Raw: raw}
}

// NewNone builds the null literal in target syntax.
func NewNone(sp Span) *Lit {
	return &Lit{node: newNode(sp), Kind: LitNone, Raw: "null"}
}

func NewUnary(sp Span, op string, x Expr) *Unary {
	return &Unary{node: newNode(sp), Op: op, X: x}
}

func NewBinary(sp Span, op string, l, r Expr) *Binary {
	return &Binary{node: newNode(sp), Op: op, L: l, R: r}
}

func NewThis(sp Span) *This { return &This{node: newNode(sp)} }

func NewTypeRef(sp Span, name string) *TypeRef {
	return &TypeRef{node: newNode(sp), Name: name}
}

func NewIndex(sp Span, base, sub Expr) *Index {
	return &Index{node: newNode(sp), Base: base, Sub: sub}
}

func NewTuple(sp Span, elems []Expr) *Tuple {
	return &Tuple{node: newNode(sp), Elems: elems}
}

func NewListLit(sp Span, elems []Expr) *ListLit {
	return &ListLit{node: newNode(sp), Elems: elems}
}

func NewSetLit(sp Span, elems []Expr) *SetLit {
	return &SetLit{node: newNode(sp), Elems: elems}
}

func NewDictLit(sp Span, pairs []Pair) *DictLit {
	return &DictLit{node: newNode(sp), Pairs: pairs}
}

func NewTernary(sp Span, cond, then, els Expr) *Ternary {
	return &Ternary{node: newNode(sp), Cond: cond, Then: then, Else: els}
}

func NewLambda(sp Span, params []string, body Expr) *Lambda {
	return &Lambda{node: newNode(sp), Params: params, Body: body}
}

// ExprName names an expression kind for diagnostics. Exhaustive over the
// union; an unknown kind is a defect in this package.
func ExprName(e Expr) string {
	switch e.(type) {
	case *Name:
		return "variable reference"
	case *AssignExpr:
		return "assignment expression"
	case *Call:
		return "call"
	case *Attr:
		return "attribute access"
	case *Await:
		return "await"
	case *Lit:
		return "literal"
	case *Unary:
		return "unary operator"
	case *Binary:
		return "binary operator"
	case *This:
		return "this"
	case *TypeRef:
		return "type reference"
	case *Index:
		return "index expression"
	case *Tuple:
		return "tuple"
	case *ListLit:
		return "list display"
	case *SetLit:
		return "set display"
	case *DictLit:
		return "dict display"
	case *Ternary:
		return "conditional expression"
	case *Lambda:
		return "lambda"
	default:
		panic(fmt.Sprintf("molt: unknown expression kind %T", e))
	}
}
