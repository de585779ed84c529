// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/logger"
)

var (
	configPath string // directory of main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "opticaapp",
		Short: "OpticaApp settings service",
		Long: `OpticaApp settings service resolves the typed settings of every tenant,
falling back to the global settings, and manages the integrations of a tenant.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		config.DefaultPath,
		"Directory of main.toml",
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
