package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show all-time accuracy per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		totals, err := s.EventRepo().CategoryTotals(cmd.Context())
		if err != nil {
			return fmt.Errorf("query totals: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(totals) == 0 {
			fmt.Fprintln(out, "No finished drills yet. Run `casedrill play` to start one.")
			return nil
		}

		fmt.Fprintf(out, "%-22s  %6s  %9s  %7s  %8s\n", "Category", "Drills", "Attempted", "Correct", "Accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 60))

		var drills, attempted, correct int
		for _, t := range totals {
			fmt.Fprintf(out, "%-22s  %6d  %9d  %7d  %7d%%\n",
				t.Category, t.Drills, t.Attempted, t.Correct, stats.Accuracy(t.Correct, t.Attempted))
			drills += t.Drills
			attempted += t.Attempted
			correct += t.Correct
		}

		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%-22s  %6d  %9d  %7d  %7d%%\n",
			"TOTAL", drills, attempted, correct, stats.Accuracy(correct, attempted))
		return nil
	},
}
