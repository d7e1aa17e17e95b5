package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/app"
	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/llm"
	"github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive drill app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	opts := app.Options{
		Source: drillgen.New(nil),
		Stats:  stats.NewAggregator(),
	}

	st := openStoreOrWarn(cmd)
	if st != nil {
		defer st.Close()
		opts.Repo = st.EventRepo()
	}
	opts.Coach = newCoachOrWarn(commandContext(cmd), opts.Repo)

	return app.Run(opts)
}

// openStore opens the history database named by --db or the environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openStoreOrWarn is openStore for commands that still work without
// history. It returns nil after printing a warning.
func openStoreOrWarn(cmd *cobra.Command) *store.Store {
	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		fmt.Fprintln(os.Stderr, "warning: history will not be saved.")
		return nil
	}
	return st
}

// newCoachOrWarn builds the sparring coach from the environment. It returns
// nil when no provider is configured.
func newCoachOrWarn(ctx context.Context, repo store.EventRepo) *sparring.Coach {
	cfg, ok := llm.ConfigFromEnv()
	if !ok {
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "warning: sparring feedback will be unavailable.")
		return nil
	}
	return sparring.NewCoach(provider, cfg.Timeout)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
