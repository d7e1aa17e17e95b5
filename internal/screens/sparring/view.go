package sparring

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

func (s *SparringScreen) View(width, height int) string {
	cw := components.ContentWidth(width, 76)
	var body string
	switch s.phase {
	case phaseTopics:
		body = s.renderTopics(width)
	case phaseCount:
		body = s.renderPicker(width, "How many questions?")
	case phaseTimer:
		body = s.renderPicker(width, "Time per question")
	case phaseRound:
		body = s.renderRound(width, cw)
	default:
		body = s.renderRecap(width, cw)
	}
	if s.errMsg != "" {
		body += "\n" + theme.Centered(theme.Incorrect, width, s.errMsg)
	}
	return body
}

func (s *SparringScreen) renderTopics(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "Pick your topics"))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, t := range s.topics {
		box := "[ ]"
		if s.picked[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t)
		if i == s.cursor {
			list.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			list.WriteString(theme.Unselected.Render("  " + line))
		}
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
	if s.coach == nil {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Hint, width, "No LLM configured: coach feedback is off."))
	}
	return b.String()
}

func (s *SparringScreen) renderPicker(width int, title string) string {
	return "\n" + theme.Centered(theme.Title, width, title) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View())
}

func (s *SparringScreen) renderRound(width, cw int) string {
	item, ok := s.round.Current()
	if !ok {
		return ""
	}
	var b strings.Builder

	info := fmt.Sprintf("%s · Question %d of %d", item.Topic, s.round.Index()+1, s.round.Len())
	if left, limited := s.round.Remaining(); limited {
		timer := theme.Hint
		if left.Seconds() <= 10 {
			timer = theme.Incorrect.Bold(true)
		}
		info += "  " + timer.Render(layout.FormatClock(left))
	}
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width, info))
	b.WriteString("\n\n")

	prompt := theme.Body.Bold(true).Width(cw - 8).Render(item.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(prompt, cw)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	b.WriteString("\n")

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Hint, width, s.status))
		b.WriteString("\n")
	}
	if last, ok := s.round.LastReply(); ok && last.Index == s.round.Index() && last.Feedback != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderFeedback(last.Feedback.Score,
			last.Feedback.Summary, last.Feedback.Strengths, last.Feedback.Improvements, cw)))
	}
	return b.String()
}

func renderFeedback(score int, summary string, strengths, improvements []string, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Score %d/10", score)))
	b.WriteString("\n")
	if summary != "" {
		b.WriteString(theme.Body.Width(cw - 8).Render(summary))
		b.WriteString("\n")
	}
	for _, st := range strengths {
		b.WriteString(theme.Correct.Render("+ " + st))
		b.WriteString("\n")
	}
	for _, im := range improvements {
		b.WriteString(theme.Incorrect.Render("- " + im))
		b.WriteString("\n")
	}
	return components.Card(strings.TrimRight(b.String(), "\n"), cw)
}

func (s *SparringScreen) renderRecap(width, cw int) string {
	replies := s.round.Replies()
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "Round over"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Subtitle, width,
		fmt.Sprintf("Answered %d of %d questions", len(replies), s.round.Len())))
	b.WriteString("\n\n")

	if len(replies) == 0 {
		b.WriteString(theme.Centered(theme.Hint, width, "No answers recorded."))
		return b.String()
	}

	var list strings.Builder
	scored, total := 0, 0
	for _, r := range replies {
		score := "  -"
		if r.Feedback != nil {
			score = fmt.Sprintf("%2d", r.Feedback.Score)
			scored++
			total += r.Feedback.Score
		}
		prompt := []rune(r.Prompt)
		if limit := cw - 10; limit > 1 && len(prompt) > limit {
			prompt = append(prompt[:limit-1], '…')
		}
		list.WriteString(theme.Body.Render(fmt.Sprintf("%s  %s", score, string(prompt))))
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
	if scored > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Subtitle, width,
			fmt.Sprintf("Average coach score: %.1f", float64(total)/float64(scored))))
	}
	return b.String()
}
