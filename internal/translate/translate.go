// Filename: translate/translate.go
// Package translate orchestrates one file's trip through the pipeline:
// parse the Python source, hoist declarations in every function, print the
// C# rendering, and account for what happened in a Report.
package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/molt-dev/molt/internal/emit/csharp"
	"github.com/molt-dev/molt/internal/frontend/python"
	"github.com/molt-dev/molt/internal/hoist"
	"github.com/molt-dev/molt/internal/ir"
)

// Options tunes one Translator.
type Options struct {
	// Concurrency caps how many functions are hoisted in parallel. Zero or
	// negative means one per CPU as errgroup sees fit.
	Concurrency int
	// Strict fails the whole file on the first untranslatable function
	// instead of skipping it.
	Strict bool
	// Namespace overrides the namespace of the generated source.
	Namespace string
}

// Translator runs the parse-hoist-emit pipeline. Safe for concurrent use;
// every translation owns its own tree.
type Translator struct {
	opts     Options
	parser   *python.Parser
	hoister  *hoist.Hoister
	emitOpts []csharp.Option
	logger   *zap.Logger
}

// New builds a Translator. A nil logger is replaced with a nop.
func New(opts Options, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("translate")

	var emitOpts []csharp.Option
	if opts.Namespace != "" {
		emitOpts = append(emitOpts, csharp.WithNamespace(opts.Namespace))
	}
	return &Translator{
		opts:     opts,
		parser:   python.NewParser(logger),
		hoister:  hoist.New(hoist.WithLogger(logger)),
		emitOpts: emitOpts,
		logger:   logger,
	}
}

// Result is one translated file: the generated source plus its report.
type Result struct {
	Source string
	Report *Report
}

// TranslateFile reads path and translates it.
func (t *Translator) TranslateFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t.TranslateSource(ctx, path, src)
}

// TranslateSource translates one buffer of Python source. In strict mode
// the first untranslatable function fails the file; otherwise it is
// skipped, recorded, and translation continues.
func (t *Translator) TranslateSource(ctx context.Context, filename string, src []byte) (*Result, error) {
	started := time.Now()

	module, parseDiags, err := t.parser.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	if t.opts.Strict {
		for _, d := range parseDiags {
			if d.Function != "" {
				return nil, fmt.Errorf("%s: %s", filename, d)
			}
		}
	}

	globals := module.GlobalNames()

	// Each function owns its tree, so hoisting can run fan-out with the
	// shared state limited to the read-only globals set. Outcomes land in
	// per-index slots; no locks needed.
	outcomes := make([]FunctionOutcome, len(module.Funcs))
	hoistDiags := make([]*python.Diagnostic, len(module.Funcs))

	g, ctx := errgroup.WithContext(ctx)
	if t.opts.Concurrency > 0 {
		g.SetLimit(t.opts.Concurrency)
	}
	for i, fn := range module.Funcs {
		i, fn := i, fn
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, diag, err := t.hoistFunction(fn, globals)
			if err != nil {
				return fmt.Errorf("%s: function %s: %w", filename, fn.Name, err)
			}
			outcomes[i] = outcome
			hoistDiags[i] = diag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	diags := parseDiags
	for _, d := range hoistDiags {
		if d != nil {
			diags = append(diags, *d)
		}
	}

	// The emitter keeps builder state, so each translation gets its own.
	source, err := csharp.New(t.emitOpts...).EmitModule(module)
	if err != nil {
		return nil, fmt.Errorf("emitting %s: %w", filename, err)
	}

	report := newReport(filename, outcomes, diags, time.Since(started))
	t.logger.Info("translated file",
		zap.String("file", filename),
		zap.String("run_id", report.RunID),
		zap.Int("functions", len(module.Funcs)),
		zap.Int("skipped", report.Skipped),
		zap.Duration("elapsed", time.Since(started)))
	return &Result{Source: source, Report: report}, nil
}

// hoistFunction rewrites one function and its nested functions. A frontend
// skip is passed through; an unsupported write target either skips the
// function (recorded as a diagnostic) or, in strict mode, fails the file.
func (t *Translator) hoistFunction(fn *ir.Function, globals ir.NameSet) (FunctionOutcome, *python.Diagnostic, error) {
	started := time.Now()
	if fn.Skipped {
		return FunctionOutcome{
			Name:   fn.Name,
			Status: StatusSkipped,
			Reason: fn.SkipReason,
		}, nil, nil
	}

	excluded := globals.Union(fn.Declared)
	err := t.hoister.Rewrite(fn.ParamNames(), fn.Body, excluded)
	if err == nil {
		for _, nested := range ir.LocalFuncs(fn.Body) {
			if err = t.hoistFunction0(nested, globals); err != nil {
				break
			}
		}
	}
	if err != nil {
		var unsup *hoist.UnsupportedConstructError
		if !errors.As(err, &unsup) || t.opts.Strict {
			return FunctionOutcome{}, nil, err
		}
		fn.Skipped = true
		fn.SkipReason = err.Error()
		return FunctionOutcome{
				Name:   fn.Name,
				Status: StatusSkipped,
				Reason: err.Error(),
			}, &python.Diagnostic{
				Function:  fn.Name,
				Construct: unsup.Construct,
				Span:      unsup.Span,
				Message:   err.Error(),
			}, nil
	}

	return FunctionOutcome{
		Name:       fn.Name,
		Status:     StatusTranslated,
		DurationMS: time.Since(started).Milliseconds(),
	}, nil, nil
}

// hoistFunction0 rewrites a nested function; failures propagate to the
// enclosing function's outcome.
func (t *Translator) hoistFunction0(fn *ir.Function, globals ir.NameSet) error {
	excluded := globals.Union(fn.Declared)
	if err := t.hoister.Rewrite(fn.ParamNames(), fn.Body, excluded); err != nil {
		return err
	}
	for _, nested := range ir.LocalFuncs(fn.Body) {
		if err := t.hoistFunction0(nested, globals); err != nil {
			return err
		}
	}
	return nil
}
