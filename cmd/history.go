package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List recent drills, or the answers of one drill",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			return printAnswers(cmd, s.EventRepo(), args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		drills, err := s.EventRepo().RecentDrills(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query drills: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(drills) == 0 {
			fmt.Fprintln(out, "No drills recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-34s  %4s  %5s  %7s  %s\n",
			"ID", "Started", "Category", "Min", "Qs", "Acc", "")
		fmt.Fprintln(out, strings.Repeat("─", 118))
		for _, d := range drills {
			category := d.Category
			if d.Subcategory != "" {
				category += " / " + d.Subcategory
			}
			flag := ""
			switch {
			case !d.Finished:
				flag = "unfinished"
			case d.StoppedEarly:
				flag = "stopped"
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-34s  %4d  %5d  %6.1f%%  %s\n",
				d.SessionID,
				d.StartedAt.Local().Format("2006-01-02 15:04"),
				truncate(category, 34),
				int(d.Duration.Minutes()),
				d.Attempted,
				d.Accuracy,
				flag,
			)
		}
		return nil
	},
}

func printAnswers(cmd *cobra.Command, repo store.EventRepo, sessionID string) error {
	answers, err := repo.DrillAnswers(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(answers) == 0 {
		fmt.Fprintf(out, "No answers recorded for %s.\n", sessionID)
		return nil
	}
	for i, a := range answers {
		mark := "✓"
		if !a.Correct {
			mark = "✗"
		}
		fmt.Fprintf(out, "%3d. %s %s\n", i+1, mark, a.Question)
		if a.Correct {
			fmt.Fprintf(out, "       %s\n", a.Given)
		} else {
			fmt.Fprintf(out, "       %s (expected %s)\n", a.Given, a.Expected)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of drills to show")
}
