// Filename: python/errors.go
package python

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/molt-dev/molt/internal/ir"
)

// unsupportedError aborts lowering of one function when the source uses a
// construct molt cannot translate.
type unsupportedError struct {
	construct string
	span      ir.Span
}

func (e *unsupportedError) Error() string {
	return fmt.Sprintf("%s at %s", e.message(), e.span)
}

func (e *unsupportedError) message() string {
	return "unsupported " + e.construct
}

func errUnsupported(n *sitter.Node, construct string) error {
	return &unsupportedError{construct: construct, span: spanOf(n)}
}

// asUnsupported extracts the unsupported detail from a lowering error. Any
// other error shape is a defect in the builder, but the diagnostic is still
// produced rather than lost.
func asUnsupported(err error) *unsupportedError {
	var u *unsupportedError
	if errors.As(err, &u) {
		return u
	}
	return &unsupportedError{construct: err.Error()}
}
