// Filename: hoist/fuzz_test.go
package hoist

import (
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/require"

	"github.com/molt-dev/molt/internal/ir"
)

// fuzzNames is the small pool the generator draws variable names from, so
// that writes collide often enough to exercise the resolver.
var fuzzNames = []string{"a", "b", "c", "d"}

// FuzzRewrite derives random statement trees and checks the pass's
// postconditions: it terminates, it never declares a variable twice, and a
// second run over the rewritten tree changes nothing.
func FuzzRewrite(f *testing.F) {
	f.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	f.Add([]byte{0xff, 0x00, 0xff, 0x00, 0xff, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		body := fuzzBlock(consumer, 0)
		if len(body.Stmts) == 0 {
			t.Skip("empty tree")
		}

		h := New()
		if err := h.Rewrite(nil, body, ir.NewNameSet("g")); err != nil {
			// The generator only produces bare-name targets, so the
			// pass must never fail.
			t.Fatalf("unexpected rewrite failure: %v", err)
		}

		for _, name := range fuzzNames {
			require.LessOrEqual(t, countDecls(body, name), 1,
				"variable %q declared more than once", name)
		}

		before := countStmts(body)
		require.NoError(t, h.Rewrite(nil, body, ir.NewNameSet("g")))
		require.Equal(t, before, countStmts(body), "second run must be a no-op")
	})
}

// fuzzBlock builds a random block, bounded in depth so the tree stays
// comparable to a real function body.
func fuzzBlock(consumer *fuzz.ConsumeFuzzer, depth int) *ir.Block {
	count, err := consumer.GetByte()
	if err != nil {
		return ir.NewBlock()
	}
	block := ir.NewBlock()
	for i := 0; i < int(count%4); i++ {
		block.Stmts = append(block.Stmts, fuzzStmt(consumer, depth))
	}
	return block
}

func fuzzStmt(consumer *fuzz.ConsumeFuzzer, depth int) ir.Statement {
	kind, err := consumer.GetByte()
	if err != nil || depth >= 3 {
		kind = 0
	}
	span := ir.Span{Line: depth + 1}
	switch kind % 5 {
	case 0:
		return ir.NewAssign(span, ir.NewName(span, fuzzName(consumer)), ir.NewLit(span, ir.LitInt, "1"))
	case 1:
		return ir.NewIf(span, ir.NewName(span, "cond"),
			fuzzBlock(consumer, depth+1), fuzzBlock(consumer, depth+1))
	case 2:
		return ir.NewWhile(span,
			ir.NewAssignExpr(span, ir.NewName(span, fuzzName(consumer)), ir.NewLit(span, ir.LitInt, "0")),
			fuzzBlock(consumer, depth+1))
	case 3:
		return ir.NewTry(span, fuzzBlock(consumer, depth+1), nil, fuzzBlock(consumer, depth+1))
	default:
		return ir.NewReturn(span, nil)
	}
}

func fuzzName(consumer *fuzz.ConsumeFuzzer) string {
	b, err := consumer.GetByte()
	if err != nil {
		return fuzzNames[0]
	}
	return fuzzNames[int(b)%len(fuzzNames)]
}

func countStmts(b *ir.Block) int {
	count := len(b.Stmts)
	for _, s := range b.Stmts {
		switch stmt := s.(type) {
		case *ir.If:
			count += countStmts(stmt.Then)
			if stmt.Else != nil {
				count += countStmts(stmt.Else)
			}
		case *ir.While:
			count += countStmts(stmt.Body)
		case *ir.Try:
			count += countStmts(stmt.Body)
			for _, h := range stmt.Handlers {
				count += countStmts(h.Body)
			}
			if stmt.Finally != nil {
				count += countStmts(stmt.Finally)
			}
		}
	}
	return count
}
