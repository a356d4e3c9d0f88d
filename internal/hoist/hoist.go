// Filename: hoist/hoist.go
// The hoisting pass decides where generated C# locals must be declared.
// Python creates variables at first write; C# requires a declaration that
// dominates every read and write. For each variable written in a function
// body without an explicit declaration, the pass finds the deepest statement
// shared by all of its write sites and either upgrades that statement into a
// declare-and-initialize, or falls back to a bare declaration at the top of
// the function body.
package hoist

import (
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/ir"
)

// Hoister runs the pass. One instance is safe for concurrent use across
// independent trees: all traversal state is per-invocation.
type Hoister struct {
	logger *zap.Logger
}

// Option configures a Hoister.
type Option func(*Hoister)

// WithLogger enables debug traces of per-variable resolution decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Hoister) {
		if logger != nil {
			h.logger = logger.Named("hoist")
		}
	}
}

// New builds a Hoister. Without options it is silent.
func New(opts ...Option) *Hoister {
	h := &Hoister{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Rewrite hoists declarations for every variable written in body that is not
// a parameter, not in globals, and not already declared. The tree is mutated
// in place; it must be exclusively owned by the caller for the duration of
// the call. On an unsupported write target the tree is left untouched and an
// UnsupportedConstructError is returned.
func (h *Hoister) Rewrite(params []string, body *ir.Block, globals ir.NameSet) error {
	excluded := globals.Union(ir.NewNameSet(params...))

	// Phase 1: walk the tree, collecting write sites and parent blocks.
	w := newWalker(excluded)
	if err := w.indexBlock(nil, body); err != nil {
		return err
	}

	// Phase 2: resolve every variable's insertion point against the
	// unmutated tree. Nothing is touched until every decision is made, so
	// two variables resolving to the same statement cannot interfere.
	var subs []substitution
	var bare []*ir.VarDecl
	for _, name := range w.sites.names {
		if w.declared.Has(name) {
			// The declaration already exists; re-running the pass must
			// not hoist the variable again.
			h.logger.Debug("variable already declared, skipping",
				zap.String("variable", name))
			continue
		}
		paths := w.sites.byName[name]
		bound := h.resolve(name, paths, w.parents)
		if sub, ok := h.decide(name, paths[0], bound, w.parents); ok {
			subs = append(subs, sub)
			continue
		}
		// Scope coverage across all paths at the cost of a wider scope.
		first := paths[0]
		sp := first[len(first)-1].Span()
		bare = append(bare, ir.NewVarDecl(sp, name, ir.DeclObject, nil))
		h.logger.Debug("hoisting to top of function body",
			zap.String("variable", name),
			zap.Int("write_sites", len(paths)))
	}

	// Phase 3: apply. Substitutions keep their statement's position; the
	// bare declarations go in front of the body in resolution order.
	for _, sub := range subs {
		i := sub.block.IndexOf(sub.old.ID())
		if i < 0 {
			panic("molt: hoist target statement vanished from its parent block")
		}
		sub.block.ReplaceAt(i, sub.decl)
	}
	if len(bare) > 0 {
		decls := make([]ir.Statement, len(bare))
		for i, d := range bare {
			decls[i] = d
		}
		body.InsertFront(decls...)
	}
	return nil
}

// substitution upgrades one plain assignment into a declare-and-initialize
// at the same position in its parent block.
type substitution struct {
	block *ir.Block
	old   *ir.Assign
	decl  *ir.VarDecl
}

// decide converts a resolved bound into a placement. It returns a
// substitution when the statement at the bound is a plain assignment of the
// variable itself; every other outcome is the bare-declaration fallback.
func (h *Hoister) decide(name string, first path, bound int, parents map[ir.NodeID]*ir.Block) (substitution, bool) {
	if bound < 0 {
		return substitution{}, false
	}
	s := first[bound]
	assign, ok := s.(*ir.Assign)
	if !ok || assign.AugOp != "" {
		return substitution{}, false
	}
	target, ok := assign.Target.(*ir.Name)
	if !ok || target.Ident != name {
		return substitution{}, false
	}

	// Binary type policy: a literal null initializer gets the explicit
	// absent-capable type, anything else defers to target-language
	// inference.
	kind := ir.DeclInferred
	if lit, ok := assign.Value.(*ir.Lit); ok && lit.Kind == ir.LitNone {
		kind = ir.DeclObject
	}
	h.logger.Debug("upgrading assignment to declaration",
		zap.String("variable", name),
		zap.Int("bound", bound),
		zap.Stringer("kind", kind))

	parent, ok := parents[s.ID()]
	if !ok {
		panic("molt: no parent block recorded for statement " + ir.StmtName(s))
	}
	return substitution{block: parent, old: assign, decl: ir.NewVarDecl(s.Span(), name, kind, assign.Value)}, true
}
