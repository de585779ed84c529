package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/daemon"
	"github.com/OpticaApp/OpticaApp/internal/settings/seed"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Migrate the database and create the default settings",
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := daemon.Open(cmd.Context(), &cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		defer func() {
			_ = c.Close()
		}()

		res, err := seed.Run(cmd.Context(), c.DB, c.Settings)
		if err != nil {
			return err //nolint:wrapcheck
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %d settings and %d categories\n", res.Settings, res.Categories)

		return err //nolint:wrapcheck
	},
}
