// Filename: hoist/walk.go
// Tree indexing: a depth-first walk over the statement tree that records,
// for every write to a hoistable variable, the full ancestor path from the
// function root to the writing statement, plus each visited statement's
// parent block. Writes hidden inside expressions (the walrus operator) are
// discovered by a companion expression walk at the points where expressions
// evaluate mid-statement.
package hoist

import "github.com/molt-dev/molt/internal/ir"

// path is the chain of statements from the function root to one statement,
// inclusive. Each entry is a member of the block owned by the previous
// entry.
type path []ir.Statement

// siteTable maps variable names to the paths of their observed writes, in
// insertion order.
type siteTable struct {
	names  []string
	byName map[string][]path
}

func (t *siteTable) record(name string, p path) {
	if _, seen := t.byName[name]; !seen {
		t.names = append(t.names, name)
	}
	// The walk keeps extending its scratch path, so every recorded site
	// needs its own copy.
	site := make(path, len(p))
	copy(site, p)
	t.byName[name] = append(t.byName[name], site)
}

// walker holds the per-invocation scratch state. A fresh walker is built for
// every Rewrite call, which keeps the Hoister reentrant.
type walker struct {
	excluded ir.NameSet
	declared ir.NameSet
	sites    *siteTable
	parents  map[ir.NodeID]*ir.Block
}

func newWalker(excluded ir.NameSet) *walker {
	return &walker{
		excluded: excluded,
		declared: make(ir.NameSet),
		sites:    &siteTable{byName: make(map[string][]path)},
		parents:  make(map[ir.NodeID]*ir.Block),
	}
}

// indexBlock visits every statement of block, extending p with the
// statement before dispatching on its kind. The dispatch is exhaustive over
// the statement union; a kind this switch does not know is a defect, not an
// input condition.
func (w *walker) indexBlock(p path, block *ir.Block) error {
	for _, s := range block.Stmts {
		w.parents[s.ID()] = block
		cur := append(p, s)

		switch stmt := s.(type) {
		case *ir.Assign:
			// Only a statement-level write to a bare name is a write
			// site. Writes through fields, indexes or patterns create no
			// variable in the source language and are left alone.
			if name, ok := stmt.Target.(*ir.Name); ok && !w.excluded.Has(name.Ident) {
				w.sites.record(name.Ident, cur)
			}

		case *ir.If:
			if err := w.scan(cur, stmt.Cond); err != nil {
				return err
			}
			// The branches are siblings sharing the conditional's path,
			// never nested in each other.
			if err := w.indexBlock(cur, stmt.Then); err != nil {
				return err
			}
			if stmt.Else != nil {
				if err := w.indexBlock(cur, stmt.Else); err != nil {
					return err
				}
			}

		case *ir.While:
			if err := w.scan(cur, stmt.Cond); err != nil {
				return err
			}
			if err := w.indexBlock(cur, stmt.Body); err != nil {
				return err
			}

		case *ir.DoWhile:
			if err := w.scan(cur, stmt.Cond); err != nil {
				return err
			}
			if err := w.indexBlock(cur, stmt.Body); err != nil {
				return err
			}

		case *ir.ForEach:
			// The loop variable is declared by the emitted foreach
			// construct itself; only the iteration source can hide
			// writes.
			if err := w.scan(cur, stmt.Iter); err != nil {
				return err
			}
			if err := w.indexBlock(cur, stmt.Body); err != nil {
				return err
			}

		case *ir.Try:
			// Body, handlers and finally are siblings sharing the try
			// statement's path.
			if err := w.indexBlock(cur, stmt.Body); err != nil {
				return err
			}
			for _, handler := range stmt.Handlers {
				if err := w.indexBlock(cur, handler.Body); err != nil {
					return err
				}
			}
			if stmt.Finally != nil {
				if err := w.indexBlock(cur, stmt.Finally); err != nil {
					return err
				}
			}

		case *ir.VarDecl:
			// An existing declaration pins its name: the variable is
			// never hoisted again, which is what makes the pass
			// idempotent.
			w.declared.Add(stmt.Name)

		case *ir.Break, *ir.Continue, *ir.Return, *ir.Throw, *ir.Using,
			*ir.LocalFunc, *ir.Comment, *ir.ExprStmt, *ir.Yield:
			// Terminal for this pass. LocalFunc bodies are separate
			// scopes processed in their own invocation; the rest either
			// own no blocks or sit outside the pass's boundary.

		default:
			panic("molt: unhandled statement kind " + ir.StmtName(s))
		}
	}
	return nil
}

// scan discovers writes embedded in an expression that evaluates as part of
// the statement at the end of cur. Exhaustive over the expression union.
func (w *walker) scan(cur path, e ir.Expr) error {
	switch expr := e.(type) {
	case *ir.AssignExpr:
		name, ok := expr.Target.(*ir.Name)
		if !ok {
			// A placement guess for a write through an indexer, field
			// or pattern could change evaluation order; refuse instead.
			return newUnsupportedConstruct(expr.Target, cur)
		}
		if !w.excluded.Has(name.Ident) {
			w.sites.record(name.Ident, cur)
		}
		return w.scan(cur, expr.Value)

	case *ir.Call:
		if err := w.scan(cur, expr.Fn); err != nil {
			return err
		}
		for _, arg := range expr.Args {
			if err := w.scan(cur, arg.Value); err != nil {
				return err
			}
		}
		return nil

	case *ir.Await:
		return w.scan(cur, expr.X)

	case *ir.Attr:
		return w.scan(cur, expr.Base)

	case *ir.Unary:
		return w.scan(cur, expr.X)

	case *ir.Binary:
		if err := w.scan(cur, expr.L); err != nil {
			return err
		}
		return w.scan(cur, expr.R)

	case *ir.Index:
		if err := w.scan(cur, expr.Base); err != nil {
			return err
		}
		return w.scan(cur, expr.Sub)

	case *ir.Tuple:
		return w.scanAll(cur, expr.Elems)

	case *ir.ListLit:
		return w.scanAll(cur, expr.Elems)

	case *ir.SetLit:
		return w.scanAll(cur, expr.Elems)

	case *ir.DictLit:
		for _, pair := range expr.Pairs {
			if err := w.scan(cur, pair.Key); err != nil {
				return err
			}
			if err := w.scan(cur, pair.Value); err != nil {
				return err
			}
		}
		return nil

	case *ir.Ternary:
		if err := w.scan(cur, expr.Cond); err != nil {
			return err
		}
		if err := w.scan(cur, expr.Then); err != nil {
			return err
		}
		return w.scan(cur, expr.Else)

	case *ir.Name, *ir.Lit, *ir.This, *ir.TypeRef:
		return nil

	case *ir.Lambda:
		// A lambda body is its own scope; nothing in it writes to this
		// function's variables.
		return nil

	default:
		panic("molt: unhandled expression kind " + ir.ExprName(e))
	}
}

func (w *walker) scanAll(cur path, elems []ir.Expr) error {
	for _, e := range elems {
		if err := w.scan(cur, e); err != nil {
			return err
		}
	}
	return nil
}
