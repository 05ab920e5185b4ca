package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/esgchampions/internal/app/models"
	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/pkg/auth"
)

func (c *CLI) newReviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Moderate submitted reviews",
		Long: `List, accept and delete champion reviews.

Accept and delete act on pending reviews only and are recorded in the
moderation history under the acting admin (--as, default: seed admin).`,
	}

	cmd.AddCommand(c.newReviewsListCmd())
	cmd.AddCommand(c.newReviewsAcceptCmd())
	cmd.AddCommand(c.newReviewsDeleteCmd())
	cmd.AddCommand(c.newReviewsStatsCmd())

	return cmd
}

func (c *CLI) newReviewsListCmd() *cobra.Command {
	var filter models.ReviewFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			reviews, err := env.Moderation.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(reviews)
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tCHAMPION\tINDICATOR\tNECESSARY\tRATING")
			for _, r := range reviews {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					r.ID, r.Status, r.ChampionEmail, r.IndicatorID, r.Necessary, r.Rating)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Status, "status", "", "pending, accepted, deleted or all")
	cmd.Flags().StringVar(&filter.Category, "category", "", "environmental, social, governance or all")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match champion name, indicator or panel")
	return cmd
}

func (c *CLI) newReviewsAcceptCmd() *cobra.Command {
	var actingAs string

	cmd := &cobra.Command{
		Use:   "accept <review-id>",
		Short: "Accept a pending review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			session, err := c.adminSession(cmd.Context(), env, actingAs)
			if err != nil {
				return err
			}

			accepted, err := env.Moderation.Accept(cmd.Context(), session, args[0])
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(accepted)
			}
			c.printf("Accepted review %s (score %d)\n", args[0], services.ReviewScore(accepted.Rating, accepted.Necessary))
			return nil
		},
	}

	cmd.Flags().StringVar(&actingAs, "as", "", "email of the acting admin")
	return cmd
}

func (c *CLI) newReviewsDeleteCmd() *cobra.Command {
	var (
		actingAs string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a pending review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			session, err := c.adminSession(cmd.Context(), env, actingAs)
			if err != nil {
				return err
			}

			if err := env.Moderation.Delete(cmd.Context(), session, args[0], notes); err != nil {
				return err
			}
			c.printf("Deleted review %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&actingAs, "as", "", "email of the acting admin")
	cmd.Flags().StringVar(&notes, "notes", "", "moderation notes")
	return cmd
}

func (c *CLI) newReviewsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count reviews per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			stats := env.Moderation.Stats(cmd.Context())
			if c.jsonOutput {
				return c.outputJSON(stats)
			}
			c.printf("pending=%d accepted=%d deleted=%d total=%d\n",
				stats.Pending, stats.Accepted, stats.Deleted, stats.Total)
			return nil
		},
	}
}

// adminSession resolves the acting admin's session. Admin rights are checked
// by the moderation service itself.
func (c *CLI) adminSession(ctx context.Context, env *Env, email string) (auth.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = strings.ToLower(strings.TrimSpace(c.cfg.Seed.AdminEmail))
	}
	if email == "" {
		return auth.Session{}, fmt.Errorf("no acting admin: pass --as or set seed.admin_email")
	}

	champion, err := env.Champions.GetByEmail(ctx, email)
	if err != nil {
		return auth.Session{}, fmt.Errorf("load acting admin %s: %w", email, err)
	}
	return auth.Session{ChampionID: champion.ID, Email: champion.Email}, nil
}
