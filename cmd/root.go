// Filename: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/molt-dev/molt/internal/config"
	"github.com/molt-dev/molt/internal/observability"
)

// app carries the per-invocation viper instance and the resolved config
// between the root command and its subcommands.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

// NewRootCommand builds the molt command tree. Each call returns a fresh
// instance so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:     "molt",
		Short:   "molt translates Python source files into C#",
		Version: Version,
		// Runs before every subcommand: config first, then the logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadFile(a.v, a.cfgFile); err != nil {
				return err
			}

			a.v.SetEnvPrefix("MOLT")
			a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			a.v.AutomaticEnv()

			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return err
			}
			a.cfg = cfg

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("starting molt", zap.String("version", Version))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ~/.molt.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newTranslateCmd(a))
	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command tree under ctx and reports the outcome.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}
