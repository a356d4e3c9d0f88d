// Filename: hoist/errors.go
package hoist

import (
	"fmt"
	"strings"

	"github.com/molt-dev/molt/internal/ir"
)

// UnsupportedConstructError reports a write target the pass cannot place a
// declaration for: an assignment expression whose target is an indexer, a
// field, or a destructuring pattern. The enclosing function must not be
// translated; guessing a placement could reorder evaluation.
type UnsupportedConstructError struct {
	// Construct is the diagnostic name of the offending expression kind.
	Construct string
	// Path names the statement kinds from the function root to the
	// statement whose expression holds the write.
	Path []string
	// Span locates the offending target in the original source.
	Span ir.Span
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported assignment target %s at %s (path %s)",
		e.Construct, e.Span, strings.Join(e.Path, " > "))
}

func newUnsupportedConstruct(target ir.Expr, cur path) *UnsupportedConstructError {
	kinds := make([]string, len(cur))
	for i, s := range cur {
		kinds[i] = ir.StmtName(s)
	}
	return &UnsupportedConstructError{
		Construct: ir.ExprName(target),
		Path:      kinds,
		Span:      target.Span(),
	}
}
