// Filename: ir/ir.go
// Package ir defines the target-side intermediate representation molt
// generates from Python source and later prints as C#. Statements and
// expressions form closed unions: every node kind is declared in this
// package and consumers dispatch with exhaustive type switches.
package ir

import (
	"fmt"
	"sync/atomic"
)

// NodeID is the stable identity of a single statement or expression node.
// IDs are assigned once at construction and compared by value; two nodes
// are the same node exactly when their IDs match. The zero value is never
// assigned, so it can flag an uninitialized node.
type NodeID uint32

// BlockID is the stable identity of one statement sequence. Like NodeID it
// is assigned at construction and compared by value, which is how the
// hoisting pass tells sibling branches apart.
type BlockID uint32

var (
	nodeSeq  atomic.Uint32
	blockSeq atomic.Uint32
)

func nextNodeID() NodeID   { return NodeID(nodeSeq.Add(1)) }
func nextBlockID() BlockID { return BlockID(blockSeq.Add(1)) }

// Span is a half-open region of the original Python source, 1-based lines
// and 0-based columns, matching tree-sitter's point convention.
type Span struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// Node is the capability common to every IR node.
type Node interface {
	ID() NodeID
	Span() Span
}

// Statement is the closed union of statement kinds. Only types in this
// package implement it.
type Statement interface {
	Node
	stmtNode()
}

// Expr is the closed union of expression kinds. Only types in this package
// implement it.
type Expr interface {
	Node
	exprNode()
}

// node carries identity and position for every concrete kind.
type node struct {
	id   NodeID
	span Span
}

func newNode(sp Span) node { return node{id: nextNodeID(), span: sp} }

func (n node) ID() NodeID { return n.id }
func (n node) Span() Span { return n.span }

// Block is one ordered statement sequence: a function body, a branch of a
// conditional, a loop body, a catch handler, and so on. Its identity is the
// BlockID, not the backing slice, so mutation helpers below keep identity
// stable while the contents change.
type Block struct {
	id BlockID

	Stmts []Statement
}

// NewBlock allocates a block with a fresh identity holding stmts.
func NewBlock(stmts ...Statement) *Block {
	return &Block{id: nextBlockID(), Stmts: stmts}
}

func (b *Block) ID() BlockID { return b.id }

// IndexOf returns the position of the statement with the given id, or -1.
func (b *Block) IndexOf(id NodeID) int {
	for i, s := range b.Stmts {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// ReplaceAt swaps the statement at position i for s, keeping every other
// statement and the block's identity untouched.
func (b *Block) ReplaceAt(i int, s Statement) {
	b.Stmts[i] = s
}

// InsertFront prepends stmts, preserving their given order.
func (b *Block) InsertFront(stmts ...Statement) {
	b.Stmts = append(stmts, b.Stmts...)
}

// NameSet is a set of variable names.
type NameSet map[string]struct{}

// NewNameSet builds a set from the given names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s NameSet) Add(name string)      { s[name] = struct{}{} }
func (s NameSet) Has(name string) bool { _, ok := s[name]; return ok }

// Union returns a new set holding the names of both operands. Either may be
// nil.
func (s NameSet) Union(other NameSet) NameSet {
	out := make(NameSet, len(s)+len(other))
	for n := range s {
		out.Add(n)
	}
	for n := range other {
		out.Add(n)
	}
	return out
}

// Module is one translated Python file: ordered module-level assignments
// (emitted as static fields), import lines carried for the header comment,
// and the functions defined at the top level.
type Module struct {
	Name    string // class name used by the emitter
	Source  string // original filename, informational
	Imports []string
	Globals []*Global
	Funcs   []*Function
}

// Global is a module-level binding. Its name is excluded from hoisting in
// every function of the module.
type Global struct {
	Name string
	Init Expr
	Span Span
}

// GlobalNames collects the module-level names into a set.
func (m *Module) GlobalNames() NameSet {
	s := make(NameSet, len(m.Globals))
	for _, g := range m.Globals {
		s.Add(g.Name)
	}
	return s
}

// Function is a translated function: the unit the hoisting pass runs over.
// Declared carries names the function marked global or nonlocal; they join
// the module globals as non-hoistable. A skipped function keeps its
// signature but its body is not emitted; SkipReason says why.
type Function struct {
	Name       string
	Params     []Param
	Body       *Block
	Declared   NameSet
	IsAsync    bool
	Yields     bool
	Skipped    bool
	SkipReason string
	Span       Span
}

// Param is one formal parameter. Variadic marks a *args catch-all.
type Param struct {
	Name     string
	Default  Expr
	Variadic bool
}

// ParamNames returns the parameter names in declaration order.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}
