package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/daemon"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
	"github.com/OpticaApp/OpticaApp/internal/settings"
	"github.com/OpticaApp/OpticaApp/internal/settings/value"
)

// ErrSettingNotFound is printed when a key resolves to nothing.
var ErrSettingNotFound = errors.New("setting not found")

func init() { //nolint: gochecknoinits
	settingsCmd.PersistentFlags().StringVarP(&tenant, "tenant", "t", "", "Tenant id, empty for the global scope")

	settingsSetCmd.Flags().StringVar(&setType, "type", string(value.TypeString), "Value type")
	settingsSetCmd.Flags().StringVar(&setModule, "module", "", "Module of the setting")
	settingsSetCmd.Flags().StringVar(&setDescription, "description", "", "Description of the setting")
	settingsSetCmd.Flags().BoolVar(&setSensitive, "sensitive", false, "Mask the value in listings")

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsDeleteCmd, settingsModuleCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	tenant         string
	setType        string
	setModule      string
	setDescription string
	setSensitive   bool

	settingsCmd = &cobra.Command{
		Use:               "settings",
		Short:             "Read and write settings",
		PersistentPreRunE: loadConfig,
	}

	settingsGetCmd = &cobra.Command{
		Use:   "get <key>",
		Short: "Resolve a setting for the tenant, falling back to the global setting",
		Args:  cobra.ExactArgs(1),
		RunE: withComponents(func(cmd *cobra.Command, c *daemon.Components, args []string) error {
			v, err := c.Resolver.Get(cmd.Context(), args[0], tenant, nil, settings.NoCache())
			if err != nil {
				return err //nolint:wrapcheck
			}

			if v == nil {
				return fmt.Errorf("%w: %s (%s)", ErrSettingNotFound, args[0], models.ScopeName(tenant))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), v.Raw())

			return err //nolint:wrapcheck
		}),
	}

	settingsSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or update a setting",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: withComponents(func(cmd *cobra.Command, c *daemon.Components, args []string) error {
			t, err := value.ParseValueType(setType)
			if err != nil {
				return err //nolint:wrapcheck
			}

			var raw any = args[1]

			if t == value.TypeJSON {
				if err = json.Unmarshal([]byte(args[1]), &raw); err != nil {
					return &value.ValidationError{Type: t, Reason: err.Error()}
				}
			}

			s, err := c.Resolver.Set(cmd.Context(), settings.SetParams{
				Key:         args[0],
				Tenant:      tenant,
				Value:       raw,
				Type:        t,
				Module:      setModule,
				Description: setDescription,
				Sensitive:   setSensitive,
			})
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s stored (%s, %s)\n", s.Key, s.Scope(), s.ValueType)

			return err //nolint:wrapcheck
		}),
	}

	settingsDeleteCmd = &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete the setting of exactly the given scope",
		Args:  cobra.ExactArgs(1),
		RunE: withComponents(func(cmd *cobra.Command, c *daemon.Components, args []string) error {
			n, err := c.Resolver.Delete(cmd.Context(), args[0], tenant)
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d deleted\n", n)

			return err //nolint:wrapcheck
		}),
	}

	settingsModuleCmd = &cobra.Command{
		Use:   "module <module>",
		Short: "List the settings of a module visible to the tenant",
		Args:  cobra.ExactArgs(1),
		RunE: withComponents(func(cmd *cobra.Command, c *daemon.Components, args []string) error {
			values, err := c.Resolver.ModuleSettings(cmd.Context(), args[0], tenant)
			if err != nil {
				return err //nolint:wrapcheck
			}

			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}

			sort.Strings(keys)

			for _, k := range keys {
				raw := ""
				if v := values[k]; v != nil {
					raw = v.Raw()
				}

				if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, raw); err != nil {
					return err //nolint:wrapcheck
				}
			}

			return nil
		}),
	}
)

// withComponents opens the components for the duration of fn.
func withComponents(fn func(cmd *cobra.Command, c *daemon.Components, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := daemon.Open(cmd.Context(), &cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		defer func() {
			_ = c.Close()
		}()

		return fn(cmd, c, args)
	}
}
