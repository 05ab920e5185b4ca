package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newRankingsCmd() *cobra.Command {
	var (
		category string
		limit    int
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Show the champion leaderboard",
		Long: `Show the leaderboard computed from accepted reviews.

Examples:
  esgctl rankings
  esgctl rankings --category social --limit 10
  esgctl rankings --refresh --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			if refresh {
				if err := env.Rankings.Invalidate(cmd.Context()); err != nil {
					return fmt.Errorf("invalidate ranking cache: %w", err)
				}
			}

			rows, err := env.Rankings.Leaderboard(cmd.Context(), category)
			if err != nil {
				return err
			}
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			if c.jsonOutput {
				return c.outputJSON(rows)
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tNAME\tSCORE\tREVIEWS\tENV\tSOC\tGOV")
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
					i+1, r.Name, r.AvgScore, r.ReviewCount,
					r.Environmental.Avg, r.Social.Avg, r.Governance.Avg)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "environmental, social or governance")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many rows")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop the cached ranking first")
	return cmd
}
