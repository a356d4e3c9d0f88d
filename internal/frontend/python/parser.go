// Filename: python/parser.go
// The frontend parses Python source with tree-sitter and lowers it to the
// target-side IR. Lowering is per function: an unsupported construct fails
// only the function that contains it, recorded as a diagnostic, and the
// rest of the module keeps translating.
package python

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/ir"
)

// Diagnostic records a construct the frontend could not translate, precise
// enough for the user to find and rewrite the offending line.
type Diagnostic struct {
	Function  string  `json:"function,omitempty"`
	Construct string  `json:"construct"`
	Span      ir.Span `json:"span"`
	Message   string  `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Function == "" {
		return fmt.Sprintf("%s: %s", d.Span, d.Message)
	}
	return fmt.Sprintf("%s: in %s: %s", d.Span, d.Function, d.Message)
}

// Parser lowers Python source files to IR modules.
type Parser struct {
	logger *zap.Logger
}

// NewParser builds a Parser. A nil logger is replaced with a nop.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger.Named("frontend")}
}

// Parse builds the IR module for one source file. Syntax errors in the
// source fail the whole file; unsupported constructs fail only the
// enclosing function and surface as diagnostics.
func (p *Parser) Parse(ctx context.Context, filename string, src []byte) (*ir.Module, []Diagnostic, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, fmt.Errorf("%s: source contains syntax errors", filename)
	}

	b := &builder{src: src}
	module := &ir.Module{
		Name:   moduleName(filename),
		Source: filename,
	}

	var diags []Diagnostic
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			fn, diag := p.buildFunction(b, child)
			if diag != nil {
				diags = append(diags, *diag)
			}
			module.Funcs = append(module.Funcs, fn)

		case "expression_statement":
			if g, ok := b.moduleGlobal(child); ok {
				module.Globals = append(module.Globals, g)
				continue
			}
			diags = append(diags, skipDiag(b, child, "module-level statement"))

		case "import_statement", "import_from_statement", "future_import_statement":
			module.Imports = append(module.Imports, b.text(child))

		case "comment":
			// Top-level comments are trivia; functions keep their own.

		case "decorated_definition":
			diags = append(diags, skipDiag(b, child, "decorator"))

		case "class_definition":
			diags = append(diags, skipDiag(b, child, "class definition"))

		default:
			diags = append(diags, skipDiag(b, child, child.Type()))
		}
	}

	p.logger.Debug("parsed module",
		zap.String("file", filename),
		zap.Int("functions", len(module.Funcs)),
		zap.Int("globals", len(module.Globals)),
		zap.Int("diagnostics", len(diags)))
	return module, diags, nil
}

// buildFunction lowers one def. On an unsupported construct the function is
// returned in skipped form so the emitter can mark the gap.
func (p *Parser) buildFunction(b *builder, node *sitter.Node) (*ir.Function, *Diagnostic) {
	fn := &ir.Function{
		Name:     b.text(node.ChildByFieldName("name")),
		Declared: make(ir.NameSet),
		IsAsync:  node.Child(0) != nil && node.Child(0).Type() == "async",
		Span:     spanOf(node),
	}

	params, err := b.buildParams(node.ChildByFieldName("parameters"))
	if err == nil {
		fn.Params = params
		fn.Body, err = b.buildBlock(node.ChildByFieldName("body"), fn)
	}
	if err != nil {
		unsup := asUnsupported(err)
		fn.Skipped = true
		fn.SkipReason = unsup.message()
		fn.Body = ir.NewBlock()
		p.logger.Debug("function skipped",
			zap.String("function", fn.Name),
			zap.String("construct", unsup.construct))
		return fn, &Diagnostic{
			Function:  fn.Name,
			Construct: unsup.construct,
			Span:      unsup.span,
			Message:   unsup.message(),
		}
	}
	return fn, nil
}

// moduleGlobal recognizes a plain `name = expr` at module level.
func (b *builder) moduleGlobal(stmt *sitter.Node) (*ir.Global, bool) {
	if stmt.NamedChildCount() != 1 {
		return nil, false
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return nil, false
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return nil, false
	}
	init, err := b.buildExpr(right)
	if err != nil {
		return nil, false
	}
	return &ir.Global{Name: b.text(left), Init: init, Span: spanOf(assign)}, true
}

func skipDiag(b *builder, node *sitter.Node, construct string) Diagnostic {
	return Diagnostic{
		Construct: construct,
		Span:      spanOf(node),
		Message:   fmt.Sprintf("unsupported %s skipped", construct),
	}
}

// moduleName derives the generated class name from the file name:
// "json_utils.py" becomes "JsonUtils".
func moduleName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var out strings.Builder
	upper := true
	for _, r := range base {
		switch {
		case r == '_' || r == '-' || r == '.':
			upper = true
		case upper:
			out.WriteRune(r - ('a' - 'A')*boolRune(r >= 'a' && r <= 'z'))
			upper = false
		default:
			out.WriteRune(r)
		}
	}
	if out.Len() == 0 {
		return "Module"
	}
	return out.String()
}

func boolRune(b bool) rune {
	if b {
		return 1
	}
	return 0
}

func spanOf(n *sitter.Node) ir.Span {
	return ir.Span{
		Line:    int(n.StartPoint().Row) + 1,
		Col:     int(n.StartPoint().Column),
		EndLine: int(n.EndPoint().Row) + 1,
		EndCol:  int(n.EndPoint().Column),
	}
}
