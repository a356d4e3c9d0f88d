// Filename: hoist/resolve.go
// Common-path resolution: reduce all of one variable's write-site paths to
// the deepest ancestor statement they share. This is lowest-common-ancestor
// computation done pairwise over shallow root-to-leaf paths; function bodies
// are never deep enough to justify a generalized ancestor index.
package hoist

import (
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/ir"
)

// resolve returns an index into the first recorded path naming the deepest
// safe insertion point, or -1 when no single point covers every write site.
//
// The bound starts at the first path's leaf and only ever tightens. For each
// further path, entries are compared index by index: statements in
// different parent blocks mean the paths diverged one level up (distinct
// branches of the statement at i-1), so the shared prefix ends at i-1; same
// parent block but different statements are true siblings, so the shared
// prefix ends at their common ancestor at i.
func (h *Hoister) resolve(name string, paths []path, parents map[ir.NodeID]*ir.Block) int {
	first := paths[0]
	bound := len(first) - 1

	for _, p := range paths[1:] {
		if limit := min(len(first), len(p)) - 1; limit < bound {
			bound = limit
		}
		for i := 0; i <= bound; i++ {
			a, b := first[i], p[i]
			if parentID(a, parents) != parentID(b, parents) {
				bound = i - 1
				break
			}
			if a.ID() != b.ID() {
				bound = i
				break
			}
		}
		if bound < 0 {
			break
		}
	}

	h.logger.Debug("resolved common path",
		zap.String("variable", name),
		zap.Int("write_sites", len(paths)),
		zap.Int("bound", bound))
	return bound
}

// parentID looks up the block a statement physically belongs to. Every
// statement on a recorded path was visited during indexing, so a missing
// entry is a walker defect, never bad input.
func parentID(s ir.Statement, parents map[ir.NodeID]*ir.Block) ir.BlockID {
	block, ok := parents[s.ID()]
	if !ok {
		panic("molt: no parent block recorded for statement " + ir.StmtName(s))
	}
	return block.ID()
}
