package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Print the configuration as json")

	rootCmd.AddCommand(configCmd)
}

var (
	configJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			dump := config.DumpConfig
			if configJSON {
				dump = config.DumpConfigJSON
			}

			s, err := dump(&c)
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)

			return err //nolint:wrapcheck
		},
	}
)
