package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-specmatch/internal/config"
	"github.com/cwbudde/algo-specmatch/internal/logging"
)

// globals holds the persistent flags and what PersistentPreRunE derives
// from them.
type globals struct {
	configPath string
	logMode    string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCmd builds the specmatch command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:          "specmatch",
		Short:        "Fit stellar spectra against broadened reference spectra",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if g.configPath != "" {
				c, err := config.Load(g.configPath)
				if err != nil {
					return err
				}
				cfg = c
			}
			if g.logMode != "" {
				m, err := logging.ParseMode(g.logMode)
				if err != nil {
					return err
				}
				cfg.Log = m
			}
			g.cfg = cfg
			g.logger = logging.New(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML fit configuration")
	root.PersistentFlags().StringVar(&g.logMode, "log", "", "log mode: dev, prod or silent (overrides the config file)")

	root.AddCommand(kernelCmd(), selftestCmd(g), stellarCmd())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
