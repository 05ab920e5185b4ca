// Package cli provides the esgctl operator commands: migrations, seeding,
// moderation and ranking inspection against the service database.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/bootstrap"
	"github.com/yigit/esgchampions/internal/config"
	"github.com/yigit/esgchampions/internal/seed"
)

// Exit codes
const (
	ExitSuccess  = 0
	ExitInternal = 1
)

// Env is what the commands operate on
type Env struct {
	Auth          services.AuthService
	Moderation    services.ModerationService
	Rankings      services.RankingService
	Champions     services.ChampionStore
	Seeder        *seed.Seeder
	Migrate       func(ctx context.Context) (int, error)
	CleanupTokens func(ctx context.Context) (int64, error)
	Close         func()
}

// Opener builds an Env from loaded configuration
type Opener func(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Env, error)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	open    Opener
	out     io.Writer

	cfg *config.Config
	lgr zerolog.Logger
	env *Env

	// Global flags
	configPath string
	jsonOutput bool
	quiet      bool
}

// New creates a CLI backed by the configured database.
func New() *CLI {
	return NewWithOpener(OpenDatabase, os.Stdout)
}

// NewWithOpener creates a CLI with a custom environment, writing to out.
func NewWithOpener(open Opener, out io.Writer) *CLI {
	c := &CLI{open: open, out: out}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI.
func (c *CLI) Execute() int {
	return c.ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the CLI with explicit arguments.
func (c *CLI) ExecuteArgs(args []string) int {
	c.rootCmd.SetArgs(args)
	defer c.closeEnv()

	if err := c.rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "esgctl: %v\n", err)
		return ExitInternal
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esgctl",
		Short: "ESG Champions operator tool",
		Long: `esgctl runs operator tasks against the ESG Champions database:
schema migrations, catalog seeding, review moderation and ranking inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "config file")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.quiet, "quiet", false, "suppress non-essential output")
	cmd.SetOut(c.out)

	cmd.AddCommand(c.newMigrateCmd())
	cmd.AddCommand(c.newSeedCmd())
	cmd.AddCommand(c.newRankingsCmd())
	cmd.AddCommand(c.newReviewsCmd())
	cmd.AddCommand(c.newAdminCmd())
	cmd.AddCommand(c.newTokensCmd())

	return cmd
}

// environment loads configuration and opens the Env once per run.
func (c *CLI) environment(ctx context.Context) (*Env, error) {
	if c.env != nil {
		return c.env, nil
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg, c.lgr = cfg, lgr

	env, err := c.open(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	c.env = env
	return env, nil
}

func (c *CLI) closeEnv() {
	if c.env != nil && c.env.Close != nil {
		c.env.Close()
	}
	c.env = nil
}

// OpenDatabase connects to PostgreSQL and builds the services.
func OpenDatabase(_ context.Context, cfg *config.Config, lgr zerolog.Logger) (*Env, error) {
	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Env{
		Auth:       deps.AuthService,
		Moderation: deps.ModerationService,
		Rankings:   deps.RankingService,
		Champions:  deps.Repos.ChampionRepository,
		Seeder:     deps.Seeder,
		Migrate: func(ctx context.Context) (int, error) {
			return bootstrap.RunMigrations(ctx, cfg, pool, lgr)
		},
		CleanupTokens: deps.Repos.TokenRepository.CleanupExpiredTokens,
		Close: func() {
			_ = deps.RankingCache.Close()
			pool.Close()
		},
	}, nil
}

// Helper functions for output

func (c *CLI) printf(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintf(c.out, format, args...)
	}
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
