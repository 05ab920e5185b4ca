package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Refresh token maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired refresh tokens and old revoked ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			deleted, err := env.CleanupTokens(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(map[string]int64{"deleted": deleted})
			}
			c.printf("Deleted %d token(s)\n", deleted)
			return nil
		},
	})

	return cmd
}
