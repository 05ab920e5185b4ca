package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every SQL file in the configured migrations directory that has not
been recorded in schema_migrations yet. Files run in name order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			applied, err := env.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(map[string]int{"applied": applied})
			}
			c.printf("Applied %d migration(s)\n", applied)
			return nil
		},
	}
}

func (c *CLI) newSeedCmd() *cobra.Command {
	var catalogOnly bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the ESG catalog and the default admin",
		Long: `Insert the built-in panels and indicators that are missing and make sure the
configured admin account exists. Running it twice changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			if catalogOnly {
				err = env.Seeder.SeedCatalog(cmd.Context())
			} else {
				err = env.Seeder.CreateDefaultData(cmd.Context(), adminAccount(c))
			}
			if err != nil {
				return err
			}
			c.printf("Seed complete\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&catalogOnly, "catalog-only", false, "skip the admin account")
	return cmd
}
