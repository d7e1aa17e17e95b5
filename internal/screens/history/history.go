package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Drills []store.DrillRecord
	Err    error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen lists past drills. Enter expands a drill's answers, loaded
// on first expansion.
type HistoryScreen struct {
	eventRepo store.EventRepo
	drills    []store.DrillRecord
	answers   map[string][]store.AnswerRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.AnswerRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		drills, err := repo.RecentDrills(context.Background(), store.QueryOpts{Limit: recentLimit})
		return historyLoadedMsg{Drills: drills, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.drills = msg.Drills
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.drills)-1 {
				s.selected++
			}
		case "enter":
			return s, s.toggle()
		}
	}
	return s, nil
}

func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.drills) {
		return nil
	}
	s.expanded[s.selected] = !s.expanded[s.selected]
	if !s.expanded[s.selected] {
		return nil
	}
	id := s.drills[s.selected].SessionID
	if _, ok := s.answers[id]; ok {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		answers, err := repo.DrillAnswers(context.Background(), id)
		return answersLoadedMsg{SessionID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return "\n\n" + theme.Centered(theme.Incorrect, width, "Error: "+s.errMsg)
	}
	if !s.loaded {
		return "\n\n" + theme.Centered(theme.Hint, width, "Loading history...")
	}
	if len(s.drills) == 0 {
		return "\n\n" + theme.Centered(theme.Hint.Italic(true), width, "No drills yet. Start one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, d := range s.drills {
		prefix := "  "
		style := theme.Body
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+drillLine(d))))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		answers, ok := s.answers[d.SessionID]
		switch {
		case !ok:
			b.WriteString(theme.Centered(theme.Hint, width, "Loading answers..."))
			b.WriteString("\n")
		case len(answers) == 0:
			b.WriteString(theme.Centered(theme.Hint.Italic(true), width, "No answers in this drill"))
			b.WriteString("\n")
		default:
			for _, a := range answers {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answerLine(a)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func drillLine(d store.DrillRecord) string {
	category := d.Category
	if d.Subcategory != "" {
		category += " · " + d.Subcategory
	}
	line := fmt.Sprintf("%s  %-32s  %d min  %3d answered  %5.1f%%",
		d.StartedAt.Local().Format("Jan 02 15:04"), category,
		int(d.Duration.Minutes()), d.Attempted, d.Accuracy)
	switch {
	case !d.Finished:
		line += "  (unfinished)"
	case d.StoppedEarly:
		line += "  (stopped)"
	}
	return line
}

func answerLine(a store.AnswerRecord) string {
	if a.Correct {
		return theme.Correct.Render(fmt.Sprintf("    ✓ %s  %s", a.Question, a.Given))
	}
	return theme.Incorrect.Render(fmt.Sprintf("    ✗ %s  %s (expected %s)", a.Question, a.Given, a.Expected))
}
