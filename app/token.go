package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpticaApp/OpticaApp/internal/secret"
	"github.com/OpticaApp/OpticaApp/internal/web/middleware/auth"
)

func init() { //nolint: gochecknoinits
	tokenCmd.Flags().BoolVar(
		&credentialsKey,
		"credentials-key",
		false,
		"Generate a Security.CredentialsKey instead of an admin token",
	)

	rootCmd.AddCommand(tokenCmd)
}

var (
	credentialsKey bool

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Generate an admin api token or a credentials key",
		Long: `Generate an admin api token and the hash to put into Webserver.AdminTokenHash.
The token is shown once and is not stored anywhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if credentialsKey {
				key, err := secret.GenerateKey()
				if err != nil {
					return err //nolint:wrapcheck
				}

				_, err = fmt.Fprintln(out, key)

				return err //nolint:wrapcheck
			}

			token, hash, err := auth.Generate()
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(out, "token: %s\nhash:  %s\n", token, hash)

			return err //nolint:wrapcheck
		},
	}
)
