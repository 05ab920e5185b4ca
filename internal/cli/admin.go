package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/esgchampions/internal/seed"
)

func (c *CLI) newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin rights",
	}

	cmd.AddCommand(c.newAdminSetCmd("grant", "Grant admin rights to a champion", true))
	cmd.AddCommand(c.newAdminSetCmd("revoke", "Revoke admin rights from a champion", false))

	return cmd
}

func (c *CLI) newAdminSetCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			if err := env.Auth.SetAdmin(cmd.Context(), args[0], isAdmin); err != nil {
				return err
			}
			c.printf("%s: admin=%t\n", args[0], isAdmin)
			return nil
		},
	}
}

func adminAccount(c *CLI) seed.AdminAccount {
	return seed.AdminAccount{
		Email:    c.cfg.Seed.AdminEmail,
		Password: c.cfg.Seed.AdminPassword,
	}
}
