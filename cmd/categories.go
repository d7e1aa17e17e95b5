package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/session"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List drill categories and subcategories",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, c := range drillgen.Categories() {
			line := string(c)
			if drillgen.IsAdaptive(c) {
				line += fmt.Sprintf("  (levels %d-%d)", drillgen.MinDifficulty, drillgen.MaxDifficulty)
			}
			fmt.Fprintln(out, line)
			for _, sub := range drillgen.Subcategories(c) {
				fmt.Fprintln(out, "  -", sub)
			}
		}
		fmt.Fprintf(out, "\nDurations: %v (default %s)\n", session.AllowedDurations, session.DefaultDuration)
	},
}
