// Package stats shows per-category accuracy for this run and, when a
// history store is open, all time.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

type totalsLoadedMsg struct {
	Totals []store.CategoryTotal
	Err    error
}

// StatsScreen renders the stats table.
type StatsScreen struct {
	agg    *stats.Aggregator
	repo   store.EventRepo
	totals []store.CategoryTotal
	loaded bool
	errMsg string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen. repo may be nil.
func New(agg *stats.Aggregator, repo store.EventRepo) *StatsScreen {
	return &StatsScreen{agg: agg, repo: repo}
}

func (s *StatsScreen) Init() tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		totals, err := repo.CategoryTotals(context.Background())
		return totalsLoadedMsg{Totals: totals, Err: err}
	}
}

func (s *StatsScreen) Title() string { return "Stats" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case totalsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.totals = msg.Totals
		}
	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "q" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	cw := components.ContentWidth(width, 72)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "This session"))
	b.WriteString("\n\n")

	rows := s.agg.Snapshot()
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(string(r.Category)))
	}
	for _, r := range rows {
		bar := components.NewProgressBar(string(r.Category), float64(r.Accuracy)/100,
			fmt.Sprintf("%3d%%  %d/%d", r.Accuracy, r.Correct, r.Attempted), cw)
		bar.LabelWidth = labelWidth
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}

	if s.repo == nil {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, "All time"))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Centered(theme.Incorrect, width, "Error: "+s.errMsg))
	case !s.loaded:
		b.WriteString(theme.Centered(theme.Hint, width, "Loading..."))
	case len(s.totals) == 0:
		b.WriteString(theme.Centered(theme.Hint, width, "No finished drills yet."))
	default:
		for _, t := range s.totals {
			line := fmt.Sprintf("%-*s  %3d drills  %5d answered  %3d%%",
				labelWidth, t.Category, t.Drills, t.Attempted, stats.Accuracy(t.Correct, t.Attempted))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(line)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
