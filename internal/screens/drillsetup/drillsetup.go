// Package drillsetup walks the user through category, subcategory,
// difficulty and duration before a drill starts.
package drillsetup

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/screens/drill"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

type step int

const (
	stepCategory step = iota
	stepSubcategory
	stepDifficulty
	stepDuration
)

// SetupScreen collects a session.Config one choice at a time.
type SetupScreen struct {
	source drillgen.Source
	stats  *stats.Aggregator
	repo   store.EventRepo

	step   step
	cfg    session.Config
	menu   components.Menu
	gen    int // bumped by goTo so a stale menu is not written back
	errMsg string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscHandler = (*SetupScreen)(nil)

// New creates the setup screen. repo may be nil.
func New(source drillgen.Source, agg *stats.Aggregator, repo store.EventRepo) *SetupScreen {
	s := &SetupScreen{source: source, stats: agg, repo: repo}
	s.goTo(stepCategory)
	return s
}

func (s *SetupScreen) Init() tea.Cmd { return nil }

func (s *SetupScreen) Title() string { return "New Drill" }

func (s *SetupScreen) HandlesEsc() bool { return true }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, s.back()
	}
	gen := s.gen
	menu, cmd := s.menu.Update(msg)
	if s.gen == gen {
		s.menu = menu
	}
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Title, width, s.prompt()))
	b.WriteString("\n")
	if summary := s.chosen(); summary != "" {
		b.WriteString(theme.Centered(theme.Subtitle, width, summary))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Incorrect, width, s.errMsg))
	}
	return b.String()
}

func (s *SetupScreen) prompt() string {
	switch s.step {
	case stepSubcategory:
		return "Pick a subcategory"
	case stepDifficulty:
		return "Starting difficulty"
	case stepDuration:
		return "How long?"
	default:
		return "Pick a category"
	}
}

// chosen echoes the choices made so far.
func (s *SetupScreen) chosen() string {
	var parts []string
	if s.step > stepCategory {
		parts = append(parts, string(s.cfg.Category))
	}
	if s.step > stepSubcategory && s.cfg.Subcategory != drillgen.SubNone {
		parts = append(parts, string(s.cfg.Subcategory))
	}
	if s.step > stepDifficulty && drillgen.IsAdaptive(s.cfg.Category) {
		parts = append(parts, fmt.Sprintf("level %d", s.cfg.Difficulty))
	}
	return strings.Join(parts, " · ")
}

// goTo shows the menu for st.
func (s *SetupScreen) goTo(st step) {
	s.step = st
	s.gen++
	var items []components.MenuItem

	switch st {
	case stepCategory:
		s.cfg = session.Config{}
		for _, c := range drillgen.Categories() {
			items = append(items, components.MenuItem{Label: string(c), Action: func() tea.Cmd {
				s.cfg.Category = c
				s.advance()
				return nil
			}})
		}
	case stepSubcategory:
		for _, sub := range drillgen.Subcategories(s.cfg.Category) {
			items = append(items, components.MenuItem{Label: string(sub), Action: func() tea.Cmd {
				s.cfg.Subcategory = sub
				s.advance()
				return nil
			}})
		}
	case stepDifficulty:
		for d := drillgen.MinDifficulty; d <= drillgen.MaxDifficulty; d++ {
			items = append(items, components.MenuItem{Label: fmt.Sprintf("Level %d", d), Action: func() tea.Cmd {
				s.cfg.Difficulty = d
				s.advance()
				return nil
			}})
		}
	case stepDuration:
		for _, dur := range session.AllowedDurations {
			label := fmt.Sprintf("%d minutes", int(dur.Minutes()))
			if dur == session.DefaultDuration {
				label += " (default)"
			}
			items = append(items, components.MenuItem{Label: label, Action: func() tea.Cmd {
				s.cfg.Duration = dur
				return s.start()
			}})
		}
	}

	s.menu = components.NewMenu(items)
	if st == stepDuration {
		for i, dur := range session.AllowedDurations {
			if dur == session.DefaultDuration {
				s.menu.Selected = i
			}
		}
	}
}

// advance moves to the next step that applies to the chosen category.
func (s *SetupScreen) advance() {
	s.errMsg = ""
	next := s.step + 1
	if next == stepSubcategory && !drillgen.HasSubcategories(s.cfg.Category) {
		next++
	}
	if next == stepDifficulty && !drillgen.IsAdaptive(s.cfg.Category) {
		next++
	}
	s.goTo(next)
}

// back returns to the previous step, or leaves the screen from the first.
func (s *SetupScreen) back() tea.Cmd {
	s.errMsg = ""
	prev := s.step - 1
	if prev == stepDifficulty && !drillgen.IsAdaptive(s.cfg.Category) {
		prev--
	}
	if prev == stepSubcategory && !drillgen.HasSubcategories(s.cfg.Category) {
		prev--
	}
	if prev < stepCategory {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	cfg := s.cfg
	s.goTo(prev)
	if prev > stepCategory {
		s.cfg = cfg
	}
	return nil
}

// start configures and starts a session, pushing the drill screen on
// success. The setup resets so "New Drill" from the summary begins fresh.
func (s *SetupScreen) start() tea.Cmd {
	opts := []session.Option{}
	if s.repo != nil {
		opts = append(opts, session.WithRecorder(session.NewEventRecorder(s.repo)))
	}
	sess := session.New(s.source, s.stats, opts...)

	if err := sess.Configure(s.cfg); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if _, err := sess.Start(); err != nil {
		if errors.Is(err, session.ErrUnrecognizedConfig) {
			s.errMsg = sess.Fault
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}

	s.goTo(stepCategory)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: drill.New(sess)}
	}
}
