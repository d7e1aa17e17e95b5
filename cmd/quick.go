package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/ui/layout"
)

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Run a drill in line mode",
	Long: "Run a single timed drill at the prompt. Type an answer and press Enter;\n" +
		"/stop ends the drill early and Ctrl+D quits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := quickConfig(cmd)
		if err != nil {
			return err
		}

		opts := []session.Option{}
		if st := openStoreOrWarn(cmd); st != nil {
			defer st.Close()
			opts = append(opts, session.WithRecorder(session.NewEventRecorder(st.EventRepo())))
		}

		sess := session.New(drillgen.New(nil), stats.NewAggregator(), opts...)
		if err := sess.Configure(cfg); err != nil {
			return err
		}
		if _, err := sess.Start(); err != nil {
			if errors.Is(err, session.ErrUnrecognizedConfig) {
				return errors.New(sess.Fault)
			}
			return err
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:            quickPrompt(sess),
			HistoryFile:       quickHistoryFile(cmd),
			HistoryLimit:      500,
			AutoComplete:      quickCompleter(),
			InterruptPrompt:   "^C",
			EOFPrompt:         "/stop",
			HistorySearchFold: true,
		})
		if err != nil {
			return fmt.Errorf("init readline: %w", err)
		}
		defer rl.Close()

		out := rl.Stdout()
		fmt.Fprintf(out, "%s drill, %s. Go!\n\n", describe(cfg), layout.FormatClock(cfg.Duration))
		printQuestion(out, sess.Current)

		res, err := quickLoop(rl, sess)
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil
	},
}

// quickLoop reads answers until the drill ends and returns the final
// result.
func quickLoop(rl *readline.Instance, sess *session.Session) (session.Result, error) {
	out := rl.Stdout()
	for {
		rl.SetPrompt(quickPrompt(sess))
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return stopQuick(sess)
		case err != nil:
			return session.Result{}, err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/stop", "/quit":
			return stopQuick(sess)
		}

		ans, err := sess.SubmitAnswer(line)
		if errors.Is(err, session.ErrSessionExpired) {
			fmt.Fprintln(out, "Time's up! That answer came in late.")
			return sess.Finalize(), nil
		}
		if err != nil {
			return session.Result{}, err
		}

		if ans.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Expected %s\n", ans.Expected)
		}
		if ans.LeveledUp {
			fmt.Fprintf(out, "Level up! Now level %d\n", ans.Difficulty)
		}
		if ans.Finished {
			fmt.Fprintln(out, "Time's up!")
			return sess.Finalize(), nil
		}
		fmt.Fprintln(out)
		printQuestion(out, ans.Next)
	}
}

func stopQuick(sess *session.Session) (session.Result, error) {
	if _, err := sess.Stop(); err != nil {
		return session.Result{}, err
	}
	return sess.Finalize(), nil
}

func quickConfig(cmd *cobra.Command) (session.Config, error) {
	catFlag, _ := cmd.Flags().GetString("category")
	subFlag, _ := cmd.Flags().GetString("subcategory")
	difficulty, _ := cmd.Flags().GetInt("difficulty")
	minutes, _ := cmd.Flags().GetInt("minutes")

	c, err := drillgen.ParseCategory(catFlag)
	if err != nil {
		return session.Config{}, err
	}
	if subFlag == "" && drillgen.HasSubcategories(c) {
		subFlag = string(drillgen.Subcategories(c)[0])
	}
	sub, err := drillgen.ParseSubcategory(c, subFlag)
	if err != nil {
		return session.Config{}, err
	}
	cfg := session.Config{
		Category:    c,
		Subcategory: sub,
		Difficulty:  difficulty,
		Duration:    session.Minutes(minutes),
	}
	return cfg.Normalize()
}

func quickPrompt(sess *session.Session) string {
	return fmt.Sprintf("[%s ✓%d/%d] > ", layout.FormatClock(sess.Remaining()), sess.Correct, sess.Attempts)
}

func quickCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("True"),
		readline.PcItem("False"),
		readline.PcItem("Cannot Say"),
		readline.PcItem("/stop"),
	)
}

func quickHistoryFile(cmd *cobra.Command) string {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(dbPath), "quick_history")
}

func describe(cfg session.Config) string {
	s := string(cfg.Category)
	if cfg.Subcategory != drillgen.SubNone {
		s += " / " + string(cfg.Subcategory)
	}
	if drillgen.IsAdaptive(cfg.Category) {
		s += fmt.Sprintf(" (level %d)", cfg.Difficulty)
	}
	return s
}

func printQuestion(out io.Writer, q *drillgen.Question) {
	if q == nil {
		return
	}
	fmt.Fprintln(out, q.Text)
	if len(q.Series) == 0 {
		return
	}
	peak := 0.0
	for _, p := range q.Series {
		peak = max(peak, p.Value)
	}
	for _, p := range q.Series {
		bar := 0
		if peak > 0 {
			bar = int(p.Value / peak * 30)
		}
		fmt.Fprintf(out, "  %-10s %s %g\n", p.Label, strings.Repeat("█", bar), p.Value)
	}
}

func printResult(out io.Writer, res session.Result) {
	fmt.Fprintln(out)
	if res.StoppedEarly {
		fmt.Fprintln(out, "Drill stopped.")
	}
	fmt.Fprintf(out, "Answered %d, correct %d, accuracy %.1f%%\n", res.Attempted, res.Correct, res.Accuracy)
	if drillgen.IsAdaptive(res.Category) {
		fmt.Fprintf(out, "Reached level %d\n", res.FinalDifficulty)
	}
}

func init() {
	quickCmd.Flags().StringP("category", "c", string(drillgen.CategoryBasicMath), "Drill category")
	quickCmd.Flags().StringP("subcategory", "s", "", "Subcategory; defaults to the category's first")
	quickCmd.Flags().IntP("difficulty", "d", drillgen.MinDifficulty, "Starting level for Basic Math")
	quickCmd.Flags().IntP("minutes", "m", int(session.DefaultDuration.Minutes()), "Drill length: 1, 3 or 5")
}
