package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/store"
)

var sparringCmd = &cobra.Command{
	Use:   "sparring",
	Short: "Run a sparring round at the prompt",
	Long: "Answer interview prompts one at a time. An empty line skips a question,\n" +
		"/end finishes the round. With an LLM key configured each answer is graded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		out := cmd.OutOrStdout()
		if len(topics) == 0 {
			fmt.Fprintln(out, "Topics (pass one or more with --topic):")
			for _, t := range sparring.Topics() {
				fmt.Fprintf(out, "  %-32s %d prompts\n", t, len(sparring.Prompts(t)))
			}
			return nil
		}

		count, _ := cmd.Flags().GetInt("count")
		limit, _ := cmd.Flags().GetDuration("time-limit")
		round, err := sparring.New(sparring.Config{Topics: topics, Count: count, TimeLimit: limit}, nil)
		if err != nil {
			return err
		}

		var repo store.EventRepo
		if st := openStoreOrWarn(cmd); st != nil {
			defer st.Close()
			repo = st.EventRepo()
		}
		coach := newCoachOrWarn(commandContext(cmd), repo)
		if coach == nil {
			fmt.Fprintln(out, "No LLM configured: answers will not be graded.")
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "/end",
		})
		if err != nil {
			return fmt.Errorf("init readline: %w", err)
		}
		defer rl.Close()

		return sparringLoop(cmd, rl, round, coach, repo)
	},
}

func sparringLoop(cmd *cobra.Command, rl *readline.Instance, round *sparring.Session, coach *sparring.Coach, repo store.EventRepo) error {
	out := rl.Stdout()
	ctx := commandContext(cmd)
	for {
		item, ok := round.Current()
		if !ok {
			break
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n%s\n", round.Index()+1, round.Len(), item.Topic, item.Prompt)
		if left, limited := round.Remaining(); limited {
			fmt.Fprintf(out, "(%s to answer)\n", left.Round(time.Second))
		}

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			round.End()
			continue
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "/end" {
			round.End()
			continue
		}
		if line == "" {
			round.Next()
			continue
		}
		if left, limited := round.Remaining(); limited && left == 0 {
			fmt.Fprintln(out, "Over time, but noted.")
		}

		reply, err := round.Record(line)
		if err != nil {
			return err
		}
		if coach != nil {
			fmt.Fprintln(out, "Grading...")
			fb, err := coach.Review(ctx, reply.Item, reply.Answer)
			if err != nil {
				fmt.Fprintln(out, "Coach unavailable:", err)
			} else {
				round.Attach(reply.Index, fb)
				reply.Feedback = &fb
				printFeedback(out, fb)
			}
		}
		if repo != nil {
			if err := sparring.Save(ctx, repo, round.ID, reply); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: save reply:", err)
			}
		}
		round.Next()
	}

	replies := round.Replies()
	fmt.Fprintf(out, "\nRound over: answered %d of %d.\n", len(replies), round.Len())
	return nil
}

func printFeedback(out io.Writer, fb sparring.Feedback) {
	fmt.Fprintf(out, "Score %d/10. %s\n", fb.Score, fb.Summary)
	for _, s := range fb.Strengths {
		fmt.Fprintln(out, "  +", s)
	}
	for _, s := range fb.Improvements {
		fmt.Fprintln(out, "  -", s)
	}
}

func init() {
	sparringCmd.Flags().StringSliceP("topic", "t", nil, "Topic to draw prompts from (repeatable)")
	sparringCmd.Flags().IntP("count", "n", sparring.DefaultCount, "Number of questions")
	sparringCmd.Flags().Duration("time-limit", 0, "Per-question time limit, e.g. 100s (0 disables)")
}
