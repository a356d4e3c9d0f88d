// Filename: ir/ir_test.go
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIdentity_UniquePerConstruction(t *testing.T) {
	t.Parallel()

	a := NewBreak(Span{Line: 1})
	b := NewBreak(Span{Line: 1})
	assert.NotEqual(t, a.ID(), b.ID(), "identical shapes must still be distinct nodes")
	assert.NotZero(t, a.ID(), "the zero NodeID is reserved for uninitialized nodes")
}

func TestBlockIdentity_StableAcrossMutation(t *testing.T) {
	t.Parallel()

	block := NewBlock(NewBreak(Span{}))
	id := block.ID()

	block.InsertFront(NewContinue(Span{}))
	block.ReplaceAt(1, NewReturn(Span{}, nil))

	assert.Equal(t, id, block.ID(), "mutation helpers must not change block identity")
	require.Len(t, block.Stmts, 2)
}

func TestBlockIndexOf(t *testing.T) {
	t.Parallel()

	first := NewBreak(Span{})
	second := NewContinue(Span{})
	block := NewBlock(first, second)

	assert.Equal(t, 0, block.IndexOf(first.ID()))
	assert.Equal(t, 1, block.IndexOf(second.ID()))
	assert.Equal(t, -1, block.IndexOf(NewBreak(Span{}).ID()))
}

func TestBlockInsertFront_PreservesOrder(t *testing.T) {
	t.Parallel()

	tail := NewReturn(Span{}, nil)
	block := NewBlock(tail)

	a := NewVarDecl(Span{}, "a", DeclObject, nil)
	b := NewVarDecl(Span{}, "b", DeclObject, nil)
	block.InsertFront(a, b)

	require.Len(t, block.Stmts, 3)
	assert.Same(t, a, block.Stmts[0].(*VarDecl))
	assert.Same(t, b, block.Stmts[1].(*VarDecl))
	assert.Same(t, tail, block.Stmts[2].(*Return))
}

func TestNameSet(t *testing.T) {
	t.Parallel()

	s := NewNameSet("a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	u := s.Union(NewNameSet("c"))
	assert.True(t, u.Has("a"))
	assert.True(t, u.Has("c"))
	assert.False(t, s.Has("c"), "union must not mutate its receiver")

	var nilSet NameSet
	assert.True(t, nilSet.Union(s).Has("b"), "nil operands are allowed")
}

func TestFunctionParamNames(t *testing.T) {
	t.Parallel()

	fn := &Function{Params: []Param{{Name: "x"}, {Name: "y", Default: NewNone(Span{})}}}
	assert.Equal(t, []string{"x", "y"}, fn.ParamNames())
}

func TestModuleGlobalNames(t *testing.T) {
	t.Parallel()

	m := &Module{Globals: []*Global{{Name: "limit"}, {Name: "cache"}}}
	names := m.GlobalNames()
	assert.True(t, names.Has("limit"))
	assert.True(t, names.Has("cache"))
	assert.False(t, names.Has("other"))
}

func TestStmtName_CoversEveryKind(t *testing.T) {
	t.Parallel()

	stmts := []Statement{
		NewAssign(Span{}, NewName(Span{}, "x"), NewNone(Span{})),
		NewVarDecl(Span{}, "x", DeclInferred, NewNone(Span{})),
		NewIf(Span{}, NewName(Span{}, "c"), NewBlock(), nil),
		NewWhile(Span{}, NewName(Span{}, "c"), NewBlock()),
		NewDoWhile(Span{}, NewBlock(), NewName(Span{}, "c")),
		NewForEach(Span{}, NewName(Span{}, "i"), NewName(Span{}, "xs"), NewBlock()),
		NewTry(Span{}, NewBlock(), nil, nil),
		NewBreak(Span{}),
		NewContinue(Span{}),
		NewReturn(Span{}, nil),
		NewThrow(Span{}, nil),
		NewUsing(Span{}, nil, NewBlock()),
		NewLocalFunc(Span{}, &Function{Name: "f", Body: NewBlock()}),
		NewComment(Span{}, "note"),
		NewExprStmt(Span{}, NewNone(Span{})),
		NewYield(Span{}, nil),
	}
	seen := map[string]bool{}
	for _, s := range stmts {
		name := StmtName(s)
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}
