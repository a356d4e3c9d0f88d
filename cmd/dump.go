// Filename: cmd/dump.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/frontend/python"
	"github.com/molt-dev/molt/internal/hoist"
	"github.com/molt-dev/molt/internal/ir"
	"github.com/molt-dev/molt/internal/observability"
)

// newDumpCmd creates the `dump` command: the parsed IR as JSON, either
// fresh from the frontend or after the hoisting pass.
func newDumpCmd(a *app) *cobra.Command {
	var hoisted bool

	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the intermediate representation of one file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			module, diags, err := python.NewParser(logger).Parse(cmd.Context(), args[0], src)
			if err != nil {
				return err
			}
			for _, d := range diags {
				logger.Warn("diagnostic", zap.String("detail", d.String()))
			}

			if hoisted {
				if err := hoistModule(module, logger); err != nil {
					return err
				}
			}

			out, err := ir.EncodeModule(module)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	dumpCmd.Flags().BoolVar(&hoisted, "hoisted", false, "run the declaration hoisting pass before dumping")
	return dumpCmd
}

// hoistModule runs the pass over every translatable function, downgrading
// unsupported functions to skipped rather than failing the dump.
func hoistModule(module *ir.Module, logger *zap.Logger) error {
	h := hoist.New(hoist.WithLogger(logger))
	globals := module.GlobalNames()
	for _, fn := range module.Funcs {
		if fn.Skipped {
			continue
		}
		if err := hoistScope(h, fn, globals); err != nil {
			var unsup *hoist.UnsupportedConstructError
			if !errors.As(err, &unsup) {
				return err
			}
			fn.Skipped = true
			fn.SkipReason = err.Error()
		}
	}
	return nil
}

// hoistScope rewrites fn and every function nested inside it.
func hoistScope(h *hoist.Hoister, fn *ir.Function, globals ir.NameSet) error {
	excluded := globals.Union(fn.Declared)
	if err := h.Rewrite(fn.ParamNames(), fn.Body, excluded); err != nil {
		return err
	}
	for _, nested := range ir.LocalFuncs(fn.Body) {
		if err := hoistScope(h, nested, globals); err != nil {
			return err
		}
	}
	return nil
}
