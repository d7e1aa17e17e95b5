// Package sparring is the interview sparring screen: topic setup, a round
// of timed prompts with free-text answers, coach feedback and a recap.
package sparring

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	sparr "github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
)

type phase int

const (
	phaseTopics phase = iota
	phaseCount
	phaseTimer
	phaseRound
	phaseRecap
)

var countOptions = []int{5, 10, 20, 30}

var timerOptions = []time.Duration{0, 60 * time.Second, sparr.DefaultTimeLimit, 180 * time.Second}

type tickMsg time.Time

type feedbackMsg struct {
	Index    int
	Feedback sparr.Feedback
	Err      error
}

type savedMsg struct {
	Err error
}

// SparringScreen runs one sparring round at a time.
type SparringScreen struct {
	coach *sparr.Coach
	repo  store.EventRepo

	phase  phase
	topics []string
	picked map[int]bool
	cursor int
	count  int
	menu   components.Menu

	round   *sparr.Session
	input   components.TextInput
	pending bool // feedback request in flight
	status  string
	errMsg  string
}

var _ screen.Screen = (*SparringScreen)(nil)
var _ screen.KeyHintProvider = (*SparringScreen)(nil)
var _ screen.EscHandler = (*SparringScreen)(nil)

// New creates a SparringScreen. coach and repo may be nil; without a coach
// feedback is unavailable, without a repo replies are not saved.
func New(coach *sparr.Coach, repo store.EventRepo) *SparringScreen {
	return &SparringScreen{
		coach:  coach,
		repo:   repo,
		topics: sparr.Topics(),
		picked: make(map[int]bool),
	}
}

func (s *SparringScreen) Init() tea.Cmd { return nil }

func (s *SparringScreen) Title() string { return "Sparring" }

func (s *SparringScreen) HandlesEsc() bool { return true }

func (s *SparringScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseTopics:
		return []layout.KeyHint{
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseRound:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Save answer"},
			{Key: "Tab", Description: "Next"},
		}
		if s.coach != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+F", Description: "Feedback"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "End round"})
	case phaseRecap:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *SparringScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.tick()

	case feedbackMsg:
		return s, s.applyFeedback(msg)

	case savedMsg:
		if msg.Err != nil {
			s.status = "Not saved: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseRound {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SparringScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseTopics:
		return s.handleTopics(key)
	case phaseCount, phaseTimer:
		return s.handlePicker(msg)
	case phaseRound:
		return s.handleRound(msg)
	default:
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SparringScreen) handleTopics(key string) (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.topics)-1 {
			s.cursor++
		}
	case "space", " ":
		s.picked[s.cursor] = !s.picked[s.cursor]
	case "enter":
		if len(s.selectedTopics()) == 0 {
			s.errMsg = "Pick at least one topic."
			return s, nil
		}
		s.enterCount()
	}
	return s, nil
}

func (s *SparringScreen) handlePicker(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if s.phase == phaseTimer {
			s.enterCount()
		} else {
			s.phase = phaseTopics
		}
		return s, nil
	case "enter":
		if s.phase == phaseCount {
			s.count = countOptions[s.menu.Selected]
			s.enterTimer()
			return s, nil
		}
		return s, s.start(timerOptions[s.menu.Selected])
	}
	s.menu, _ = s.menu.Update(msg)
	return s, nil
}

func (s *SparringScreen) handleRound(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.round.End()
		s.phase = phaseRecap
		return s, nil
	case "enter":
		return s, s.record()
	case "tab":
		return s, s.next()
	case "ctrl+f":
		return s, s.requestFeedback()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SparringScreen) selectedTopics() []string {
	var out []string
	for i, t := range s.topics {
		if s.picked[i] {
			out = append(out, t)
		}
	}
	return out
}

func (s *SparringScreen) enterCount() {
	s.phase = phaseCount
	items := make([]components.MenuItem, len(countOptions))
	for i, n := range countOptions {
		items[i] = components.MenuItem{Label: fmt.Sprintf("%d questions", n)}
	}
	s.menu = components.NewMenu(items)
	s.menu.Selected = 1
}

func (s *SparringScreen) enterTimer() {
	s.phase = phaseTimer
	items := make([]components.MenuItem, len(timerOptions))
	for i, d := range timerOptions {
		label := "No timer"
		if d > 0 {
			label = fmt.Sprintf("%d seconds per question", int(d.Seconds()))
		}
		items[i] = components.MenuItem{Label: label}
	}
	s.menu = components.NewMenu(items)
	s.menu.Selected = 2
}

// start builds the round and begins ticking when it is timed.
func (s *SparringScreen) start(limit time.Duration) tea.Cmd {
	round, err := sparr.New(sparr.Config{
		Topics:    s.selectedTopics(),
		Count:     s.count,
		TimeLimit: limit,
	}, nil)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.round = round
	s.phase = phaseRound
	s.status = ""
	s.errMsg = ""
	s.resetInput()
	if limit == 0 {
		return s.input.Init()
	}
	return tea.Batch(s.input.Init(), tickCmd())
}

func (s *SparringScreen) resetInput() {
	s.input = components.NewTextInput("Talk it through...", false, 2000)
}

// record stores the typed answer against the current question.
func (s *SparringScreen) record() tea.Cmd {
	answer := s.input.Value()
	if answer == "" {
		return nil
	}
	reply, err := s.round.Record(answer)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.status = "Answer saved."
	return s.save(reply)
}

// next records any unsaved text and advances, ending the round after the
// last question.
func (s *SparringScreen) next() tea.Cmd {
	var cmds []tea.Cmd
	if s.unsaved() {
		cmds = append(cmds, s.record())
	}
	s.status = ""
	s.pending = false
	if !s.round.Next() {
		s.phase = phaseRecap
		return tea.Batch(cmds...)
	}
	s.resetInput()
	cmds = append(cmds, s.input.Init())
	return tea.Batch(cmds...)
}

// unsaved reports whether the input differs from the recorded reply to the
// current question.
func (s *SparringScreen) unsaved() bool {
	v := s.input.Value()
	if v == "" {
		return false
	}
	last, ok := s.round.LastReply()
	return !ok || last.Index != s.round.Index() || last.Answer != v
}

func (s *SparringScreen) tick() tea.Cmd {
	if s.phase != phaseRound {
		return nil
	}
	left, limited := s.round.Remaining()
	if !limited {
		return nil
	}
	if left > 0 {
		return tickCmd()
	}
	cmd := s.next()
	if s.phase == phaseRound {
		return tea.Batch(cmd, tickCmd())
	}
	return cmd
}

// requestFeedback saves any unsaved text, then asks the coach to review
// the current question's reply.
func (s *SparringScreen) requestFeedback() tea.Cmd {
	if s.coach == nil || s.pending {
		return nil
	}
	var saveCmd tea.Cmd
	if s.unsaved() {
		saveCmd = s.record()
	}
	reply, ok := s.round.LastReply()
	if !ok || reply.Index != s.round.Index() {
		s.status = "Save an answer first."
		return nil
	}
	s.pending = true
	s.status = "Asking the coach..."
	coach := s.coach
	return tea.Batch(saveCmd, func() tea.Msg {
		fb, err := coach.Review(context.Background(), reply.Item, reply.Answer)
		return feedbackMsg{Index: reply.Index, Feedback: fb, Err: err}
	})
}

func (s *SparringScreen) applyFeedback(msg feedbackMsg) tea.Cmd {
	s.pending = false
	if msg.Err != nil {
		if errors.Is(msg.Err, sparr.ErrEmptyAnswer) {
			s.status = "Nothing to review."
		} else {
			s.status = "Coach unavailable: " + msg.Err.Error()
		}
		return nil
	}
	if s.round == nil || !s.round.Attach(msg.Index, msg.Feedback) {
		return nil
	}
	s.status = ""
	for _, r := range s.round.Replies() {
		if r.Index == msg.Index {
			return s.save(r)
		}
	}
	return nil
}

func (s *SparringScreen) save(r sparr.Reply) tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo, id := s.repo, s.round.ID
	return func() tea.Msg {
		return savedMsg{Err: sparr.Save(context.Background(), repo, id, r)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
