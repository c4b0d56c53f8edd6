package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const configKey ctxKey = 1

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the loaded config, or the defaults.
func configFromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey).(Config); ok {
		return cfg
	}
	return defaultConfig()
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "overlay",
		Short:        "Place floating overlays next to terminal elements",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "placement", cfg.Placement, "interval", cfg.RepositionInterval)

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+defaultConfigFile+" when present)")

	root.AddCommand(newPlaceCmd())
	root.AddCommand(newDemoCmd())
	return root
}
