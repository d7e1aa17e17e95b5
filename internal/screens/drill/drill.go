// Package drill is the active drill screen: question, countdown, answer
// entry and per-answer feedback.
package drill

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/screens/summary"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
)

// categoricalOptions are offered for True / False / Cannot Say questions.
var categoricalOptions = []string{"True", "False", "Cannot Say"}

// DrillScreen drives an active session.Session.
type DrillScreen struct {
	sess       *session.Session
	input      components.TextInput
	choice     components.MultiChoice
	choiceMode bool
	confirming bool
	errMsg     string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.EscHandler = (*DrillScreen)(nil)

// New wraps a started session.
func New(sess *session.Session) *DrillScreen {
	s := &DrillScreen{sess: sess}
	s.prepareInput()
	return s
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), tickCmd())
}

func (s *DrillScreen) Title() string {
	return string(s.sess.Config.Category)
}

func (s *DrillScreen) HandlesEsc() bool { return true }

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Stop drill"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.choiceMode {
		return []layout.KeyHint{
			{Key: "1-3", Description: "Answer"},
			{Key: "←→", Description: "Move"},
			{Key: "Esc", Description: "Stop"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Stop"},
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.sess.Phase != session.PhaseActive {
			return s, nil
		}
		if s.sess.CheckTimeout() {
			return s, s.finish()
		}
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.choiceMode && !s.confirming {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		if s.sess.Phase == session.PhaseActive {
			s.sess.Finalize()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			if _, err := s.sess.Stop(); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, s.finish()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirming = true
		return s, nil
	}

	if s.choiceMode {
		s.choice, _ = s.choice.Update(msg)
		if answer, ok := s.choice.Chosen(); ok {
			return s.submit(answer)
		}
		return s, nil
	}

	if key == "enter" {
		return s.submit(s.input.Value())
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit scores raw and moves to the next question or the summary.
func (s *DrillScreen) submit(raw string) (screen.Screen, tea.Cmd) {
	if raw == "" {
		return s, nil
	}

	res, err := s.sess.SubmitAnswer(raw)
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return s, s.finish()
	case errors.Is(err, session.ErrUnrecognizedConfig):
		s.errMsg = s.sess.Fault
		return s, nil
	case err != nil:
		s.errMsg = err.Error()
		return s, nil
	}

	if res.Finished {
		return s, s.finish()
	}
	s.prepareInput()
	return s, s.input.Init()
}

// prepareInput resets answer entry for the current question's answer kind.
func (s *DrillScreen) prepareInput() {
	q := s.sess.Current
	s.choiceMode = q != nil && q.Answer.Kind == drillgen.AnswerCategorical
	if s.choiceMode {
		s.choice = components.NewMultiChoice(categoricalOptions)
		return
	}
	numeric := q != nil && q.Answer.IsNumeric()
	s.input = components.NewTextInput("Type your answer...", numeric, 24)
}

// finish swaps this screen for the summary.
func (s *DrillScreen) finish() tea.Cmd {
	res := s.sess.Finalize()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
