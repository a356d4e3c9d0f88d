// Filename: ir/stmt.go
package ir

import "fmt"

// DeclKind selects how a variable declaration annotates its type.
type DeclKind uint8

const (
	// DeclInferred defers to the target language's inference (C# var).
	// Requires an initializer.
	DeclInferred DeclKind = iota
	// DeclObject declares the absent-capable placeholder type. Used when
	// the initializer is the null literal, or for bare declarations.
	DeclObject
)

func (k DeclKind) String() string {
	switch k {
	case DeclInferred:
		return "inferred"
	case DeclObject:
		return "object"
	default:
		return fmt.Sprintf("DeclKind(%d)", uint8(k))
	}
}

// Assign writes Value to Target. AugOp is empty for plain assignment, or a
// compound operator ("+=", "*=", ...) carried through from the source.
type Assign struct {
	node
	Target Expr
	AugOp  string
	Value  Expr
}

// VarDecl declares a local. Init may be nil for a bare, default-initialized
// declaration.
type VarDecl struct {
	node
	Name string
	Kind DeclKind
	Init Expr
}

// If is a conditional with an optional else block. The two blocks are
// siblings: statements in one are never ancestors of statements in the
// other.
type If struct {
	node
	Cond Expr
	Then *Block
	Else *Block // nil when absent
}

// While is a pre-test loop.
type While struct {
	node
	Cond Expr
	Body *Block
}

// DoWhile is a post-test loop.
type DoWhile struct {
	node
	Body *Block
	Cond Expr
}

// ForEach iterates Target over Iter. The loop variable is declared by the
// construct itself and never needs hoisting.
type ForEach struct {
	node
	Target Expr
	Iter   Expr
	Body   *Block
}

// Try guards Body with zero or more handlers and an optional finally block.
// All contained blocks are siblings sharing the try statement's path.
type Try struct {
	node
	Body     *Block
	Handlers []*Catch
	Finally  *Block // nil when absent
}

// Catch is one exception handler clause. Type and Name may be empty for a
// catch-all.
type Catch struct {
	Type string
	Name string
	Body *Block
}

// Break exits the innermost loop.
type Break struct{ node }

// Continue resumes the innermost loop.
type Continue struct{ node }

// Return exits the function. Value may be nil.
type Return struct {
	node
	Value Expr
}

// Throw raises Value, or rethrows when Value is nil.
type Throw struct {
	node
	Value Expr
}

// Using scopes one or more resources over Body.
type Using struct {
	node
	Items []UsingItem
	Body  *Block
}

// UsingItem is one acquired resource with an optional bound name.
type UsingItem struct {
	Resource Expr
	Target   Expr // nil when the resource is unnamed
}

// LocalFunc is a function defined inside another function. Its body is a
// separate scope and is processed independently.
type LocalFunc struct {
	node
	Fn *Function
}

// Comment is a source comment carried through translation.
type Comment struct {
	node
	Text string
}

// ExprStmt evaluates X for its effect.
type ExprStmt struct {
	node
	X Expr
}

// Yield produces Value from an iterator function. A nil Value yields null.
type Yield struct {
	node
	Value Expr
}

func (*Assign) stmtNode()    {}
func (*VarDecl) stmtNode()   {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*DoWhile) stmtNode()   {}
func (*ForEach) stmtNode()   {}
func (*Try) stmtNode()       {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Return) stmtNode()    {}
func (*Throw) stmtNode()     {}
func (*Using) stmtNode()     {}
func (*LocalFunc) stmtNode() {}
func (*Comment) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*Yield) stmtNode()     {}

func NewAssign(sp Span, target, value Expr) *Assign {
	return &Assign{node: newNode(sp), Target: target, Value: value}
}

func NewAugAssign(sp Span, target Expr, op string, value Expr) *Assign {
	return &Assign{node: newNode(sp), Target: target, AugOp: op, Value: value}
}

func NewVarDecl(sp Span, name string, kind DeclKind, init Expr) *VarDecl {
	return &VarDecl{node: newNode(sp), Name: name, Kind: kind, Init: init}
}

func NewIf(sp Span, cond Expr, then, els *Block) *If {
	return &If{node: newNode(sp), Cond: cond, Then: then, Else: els}
}

func NewWhile(sp Span, cond Expr, body *Block) *While {
	return &While{node: newNode(sp), Cond: cond, Body: body}
}

func NewDoWhile(sp Span, body *Block, cond Expr) *DoWhile {
	return &DoWhile{node: newNode(sp), Body: body, Cond: cond}
}

func NewForEach(sp Span, target, iter Expr, body *Block) *ForEach {
	return &ForEach{node: newNode(sp), Target: target, Iter: iter, Body: body}
}

func NewTry(sp Span, body *Block, handlers []*Catch, finally *Block) *Try {
	return &Try{node: newNode(sp), Body: body, Handlers: handlers, Finally: finally}
}

func NewBreak(sp Span) *Break       { return &Break{node: newNode(sp)} }
func NewContinue(sp Span) *Continue { return &Continue{node: newNode(sp)} }

func NewReturn(sp Span, value Expr) *Return {
	return &Return{node: newNode(sp), Value: value}
}

func NewThrow(sp Span, value Expr) *Throw {
	return &Throw{node: newNode(sp), Value: value}
}

func NewUsing(sp Span, items []UsingItem, body *Block) *Using {
	return &Using{node: newNode(sp), Items: items, Body: body}
}

func NewLocalFunc(sp Span, fn *Function) *LocalFunc {
	return &LocalFunc{node: newNode(sp), Fn: fn}
}

func NewComment(sp Span, text string) *Comment {
	return &Comment{node: newNode(sp), Text: text}
}

func NewExprStmt(sp Span, x Expr) *ExprStmt {
	return &ExprStmt{node: newNode(sp), X: x}
}

func NewYield(sp Span, value Expr) *Yield {
	return &Yield{node: newNode(sp), Value: value}
}

// StmtName names a statement kind for diagnostics and path rendering. It is
// exhaustive over the union; an unknown kind is a defect in this package.
func StmtName(s Statement) string {
	switch s.(type) {
	case *Assign:
		return "assignment"
	case *VarDecl:
		return "declaration"
	case *If:
		return "if"
	case *While:
		return "while"
	case *DoWhile:
		return "do-while"
	case *ForEach:
		return "foreach"
	case *Try:
		return "try"
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *Return:
		return "return"
	case *Throw:
		return "throw"
	case *Using:
		return "using"
	case *LocalFunc:
		return "local function"
	case *Comment:
		return "comment"
	case *ExprStmt:
		return "expression statement"
	case *Yield:
		return "yield"
	default:
		panic(fmt.Sprintf("molt: unknown statement kind %T", s))
	}
}

// LocalFuncs collects the functions declared inside b, at any statement
// depth, without descending into their bodies. Each is a separate scope
// the caller processes on its own.
func LocalFuncs(b *Block) []*Function {
	var out []*Function
	var visit func(*Block)
	visit = func(block *Block) {
		if block == nil {
			return
		}
		for _, s := range block.Stmts {
			switch stmt := s.(type) {
			case *LocalFunc:
				out = append(out, stmt.Fn)
			case *If:
				visit(stmt.Then)
				visit(stmt.Else)
			case *While:
				visit(stmt.Body)
			case *DoWhile:
				visit(stmt.Body)
			case *ForEach:
				visit(stmt.Body)
			case *Try:
				visit(stmt.Body)
				for _, h := range stmt.Handlers {
					visit(h.Body)
				}
				visit(stmt.Finally)
			case *Using:
				visit(stmt.Body)
			}
		}
	}
	visit(b)
	return out
}
