package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirming {
		return renderStopConfirm(width)
	}
	return s.renderQuestionView(width)
}

// renderQuestionView renders the info bar, question, answer entry and the
// feedback for the previous answer.
func (s *DrillScreen) renderQuestionView(width int) string {
	sess := s.sess
	var b strings.Builder

	label := string(sess.Config.Category)
	if sess.Config.Subcategory != drillgen.SubNone {
		label += " · " + string(sess.Config.Subcategory)
	}
	if drillgen.IsAdaptive(sess.Config.Category) {
		label += fmt.Sprintf(" · Level %d", sess.Difficulty)
	}

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + label)

	timer := lipgloss.NewStyle().Foreground(theme.Accent)
	if sess.Remaining().Seconds() <= 10 {
		timer = timer.Foreground(theme.Error).Bold(true)
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d/%d  %s",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			sess.Correct, sess.Attempts,
			timer.Render(layout.FormatClock(sess.Remaining())),
		))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q := sess.Current
	if q == nil {
		return b.String()
	}

	questionStyle := lipgloss.NewStyle().
		Width(min(width-8, 72)).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, questionStyle.Render(q.Text)))
	b.WriteString("\n\n")

	if len(q.Series) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderChart(q.Series, min(width-8, 60))))
		b.WriteString("\n\n")
	}

	if s.choiceMode {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	} else {
		b.WriteString(theme.Centered(lipgloss.NewStyle(), width, "Answer: "+s.input.View()))
	}
	b.WriteString("\n\n")

	b.WriteString(s.renderFeedback(width))
	return b.String()
}

// renderFeedback shows the verdict on the last answer.
func (s *DrillScreen) renderFeedback(width int) string {
	last := s.sess.Last
	if last == nil {
		return ""
	}

	var line string
	if last.Correct {
		line = theme.Correct.Render("✓ Correct!")
	} else {
		line = theme.Incorrect.Render(fmt.Sprintf("✗ %s is not it.", last.Input)) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Expected "+last.Expected.String())
	}
	if last.LeveledUp {
		line += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Level up! Now level %d", last.Difficulty))
	}
	return theme.Centered(lipgloss.NewStyle(), width, line)
}

// renderChart draws one bar per series point scaled to the largest value.
func renderChart(series []drillgen.SeriesPoint, width int) string {
	var peak float64
	labelWidth := 0
	for _, p := range series {
		peak = max(peak, p.Value)
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
	}

	var rows []string
	for _, p := range series {
		pct := 0.0
		if peak > 0 {
			pct = p.Value / peak
		}
		bar := components.NewProgressBar(p.Label, pct, formatValue(p.Value), width)
		bar.LabelWidth = labelWidth
		rows = append(rows, bar.View())
	}
	return strings.Join(rows, "\n")
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// renderStopConfirm renders the stop confirmation dialog.
func renderStopConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), width, "Stop this drill early?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width, "Answers so far still count toward your stats."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Success), width, "[Y] Yes, stop now"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Primary), width, "[N] No, keep going"))
	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return theme.Centered(lipgloss.NewStyle().Foreground(theme.Error), width,
		fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
