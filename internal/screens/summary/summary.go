package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

// SummaryScreen shows a finished drill's result.
type SummaryScreen struct {
	result session.Result
	menu   components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. It replaces the drill screen, so "New
// Drill" pops back to the setup beneath it.
func New(result session.Result) *SummaryScreen {
	return &SummaryScreen{
		result: result,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "NEW DRILL", Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopScreenMsg{} }
			}},
			{Label: "HOME", Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopToRootMsg{} }
			}},
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Drill Summary"
}

func (s *SummaryScreen) HandlesEsc() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	var b strings.Builder

	heading := "Time's up!"
	if res.StoppedEarly {
		heading = "Drill stopped"
	}
	b.WriteString(theme.Centered(theme.Title, width, heading))
	b.WriteString("\n")

	label := string(res.Category)
	if res.Subcategory != drillgen.SubNone {
		label += " · " + string(res.Subcategory)
	}
	b.WriteString(theme.Centered(theme.Subtitle, width,
		fmt.Sprintf("%s   %s", label, layout.FormatClock(res.Duration))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Attempted: %d        Correct: %d        Accuracy: %.1f%%",
		res.Attempted, res.Correct, res.Accuracy)
	b.WriteString(theme.Centered(theme.Body, width, statsLine))
	b.WriteString("\n")

	if drillgen.IsAdaptive(res.Category) {
		b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Accent), width,
			fmt.Sprintf("Reached level %d", res.FinalDifficulty)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Hint, width, verdict(res)))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width, 40)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ButtonColumn(s.menu, cw, height < 16)))
	return b.String()
}

// verdict is a one-line read of the result.
func verdict(res session.Result) string {
	switch {
	case res.Attempted == 0:
		return "No answers this time. Speed comes from reps."
	case res.Accuracy >= 90:
		return "Interview ready. Push the pace next time."
	case res.Accuracy >= 70:
		return "Solid. Tighten up the misses."
	default:
		return "Slow down and check each step."
	}
}
