// Filename: cmd/translate.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/config"
	"github.com/molt-dev/molt/internal/observability"
	"github.com/molt-dev/molt/internal/translate"
)

// newTranslateCmd creates the `translate` command.
func newTranslateCmd(a *app) *cobra.Command {
	translateCmd := &cobra.Command{
		Use:   "translate [files...]",
		Short: "Translate Python source files into C#",
		Args:  cobra.MinimumNArgs(1),
		// Flags bind to viper keys here so flag > env > file > default
		// precedence holds.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for key, flag := range map[string]string{
				"translate.out_dir":     "out-dir",
				"translate.strict":      "strict",
				"translate.concurrency": "concurrency",
				"translate.report":      "report",
			} {
				if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger := observability.GetLogger()
			logger.Info("starting translation",
				zap.Strings("files", args),
				zap.String("out_dir", cfg.Translate.OutDir),
				zap.Bool("strict", cfg.Translate.Strict),
				zap.Int("concurrency", cfg.Translate.Concurrency))

			if err := os.MkdirAll(cfg.Translate.OutDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			translator := translate.New(translate.Options{
				Concurrency: cfg.Translate.Concurrency,
				Strict:      cfg.Translate.Strict,
				Namespace:   cfg.Translate.Namespace,
			}, logger)

			var reports []*translate.Report
			var failed int
			for _, path := range args {
				res, err := translator.TranslateFile(cmd.Context(), path)
				if err != nil {
					if cfg.Translate.Strict {
						return err
					}
					logger.Error("file failed", zap.String("file", path), zap.Error(err))
					failed++
					continue
				}

				outPath := filepath.Join(cfg.Translate.OutDir, outputName(path))
				if err := os.WriteFile(outPath, []byte(res.Source), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				logger.Info("wrote generated source",
					zap.String("file", path),
					zap.String("output", outPath),
					zap.Int("skipped_functions", res.Report.Skipped))
				reports = append(reports, res.Report)
			}

			if cfg.Translate.Report != "" {
				out, err := translate.EncodeReports(reports)
				if err != nil {
					return err
				}
				if err := os.WriteFile(cfg.Translate.Report, out, 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to translate", failed, len(args))
			}
			return nil
		},
	}

	translateCmd.Flags().StringP("out-dir", "o", ".", "directory the generated .cs files are written to")
	translateCmd.Flags().Bool("strict", false, "fail a file on its first untranslatable function")
	translateCmd.Flags().Int("concurrency", 0, "max functions hoisted in parallel per file")
	translateCmd.Flags().String("report", "", "write a JSON run report to this path")
	return translateCmd
}

// outputName maps an input filename to its generated counterpart:
// pkg/util.py becomes util.cs.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".cs"
}
