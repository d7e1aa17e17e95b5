package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "casedrill",
	Short: "Timed case-interview drills in your terminal",
	Long: "casedrill runs timed mental-math and reasoning drills for consulting case interviews,\n" +
		"plus Q&A sparring rounds with optional AI feedback.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CASEDRILL_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(sparringCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CASEDRILL_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
