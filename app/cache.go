package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/daemon"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
)

func init() { //nolint: gochecknoinits
	cacheClearCmd.Flags().StringVarP(&tenant, "tenant", "t", "", "Tenant id, empty clears the whole cache")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared settings cache",
		Long: `Manage the shared settings cache. Only the redis and storage drivers
are shared with a running service, the memory drivers live in its process.`,
		PersistentPreRunE: loadConfig,
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Evict the cached settings of a tenant or of everyone",
		Args:  cobra.NoArgs,
		RunE: withComponents(func(cmd *cobra.Command, c *daemon.Components, _ []string) error {
			if err := c.Resolver.ClearCache(cmd.Context(), tenant); err != nil {
				return err //nolint:wrapcheck
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cache cleared (%s)\n", models.ScopeName(tenant))

			return err //nolint:wrapcheck
		}),
	}
)
