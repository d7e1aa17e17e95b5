package drill

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/session"
	"github.com/sabta/casedrill/internal/stats"
)

// stubSource asks 2 + 2 for Basic Math and a True/False statement otherwise.
type stubSource struct{}

func (stubSource) Generate(c drillgen.Category, sub drillgen.Subcategory, difficulty int) drillgen.Question {
	if c == drillgen.CategoryBasicMath {
		return drillgen.Question{Text: "2 + 2", Answer: drillgen.Int(4), Category: c, Subcategory: sub, Difficulty: difficulty}
	}
	return drillgen.Question{
		Text:     "All managers are analysts. Sam is a manager. Sam is an analyst.",
		Answer:   drillgen.Text("True"),
		Category: c,
		Series:   []drillgen.SeriesPoint{{Label: "Q1", Value: 120}, {Label: "Q2", Value: 80}},
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func startDrill(t *testing.T, cfg session.Config) (*DrillScreen, *fakeClock, *stats.Aggregator) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	agg := stats.NewAggregator()
	sess := session.New(stubSource{}, agg, session.WithClock(clock.Now))
	if err := sess.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return New(sess), clock, agg
}

func basicMath() session.Config {
	return session.Config{Category: drillgen.CategoryBasicMath, Subcategory: drillgen.SubAddition, Duration: time.Minute}
}

func answer(t *testing.T, s *DrillScreen, text string) (*DrillScreen, tea.Cmd) {
	t.Helper()
	s.input.Model.SetValue(text)
	scr, cmd := s.Update(specialKey(tea.KeyEnter))
	return scr.(*DrillScreen), cmd
}

func TestDrillScreen_Title(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	if s.Title() != "Basic Math" {
		t.Errorf("Title = %q, want %q", s.Title(), "Basic Math")
	}
}

func TestDrillScreen_ViewShowsQuestionAndTimer(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	view := s.View(100, 24)
	for _, want := range []string{"2 + 2", "1:00", "Level 1", "Addition"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDrillScreen_CorrectAnswer(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	s, _ = answer(t, s, "4")

	if s.sess.Attempts != 1 || s.sess.Correct != 1 {
		t.Errorf("attempts/correct = %d/%d, want 1/1", s.sess.Attempts, s.sess.Correct)
	}
	if !strings.Contains(s.View(100, 24), "Correct!") {
		t.Error("expected correct feedback")
	}
	if s.input.Value() != "" {
		t.Error("expected input cleared for the next question")
	}
}

func TestDrillScreen_WrongAnswerShowsExpected(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	s, _ = answer(t, s, "5")

	view := s.View(100, 24)
	if !strings.Contains(view, "Expected 4") {
		t.Error("expected the correct answer in feedback")
	}
	if s.sess.Correct != 0 {
		t.Errorf("correct = %d, want 0", s.sess.Correct)
	}
}

func TestDrillScreen_EmptyAnswerIgnored(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	s, _ = answer(t, s, "")
	if s.sess.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", s.sess.Attempts)
	}
}

func TestDrillScreen_LevelUp(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	for range 3 {
		s, _ = answer(t, s, "4")
	}
	if s.sess.Difficulty != 2 {
		t.Errorf("difficulty = %d, want 2", s.sess.Difficulty)
	}
	if !strings.Contains(s.View(100, 24), "Level up!") {
		t.Error("expected level-up notice")
	}
}

func TestDrillScreen_StopConfirm(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	if !scr.(*DrillScreen).confirming {
		t.Fatal("expected stop confirmation")
	}
	scr, _ = scr.Update(keyPress('n'))
	if scr.(*DrillScreen).confirming {
		t.Fatal("expected confirmation dismissed")
	}
	if s.sess.Phase != session.PhaseActive {
		t.Fatal("drill should still be active")
	}

	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after confirming stop")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Drill Summary" {
		t.Errorf("replaced with %q, want summary", msg.Screen.Title())
	}
	if !s.sess.StoppedEarly {
		t.Error("expected stopped-early result")
	}
}

func TestDrillScreen_TimeoutOnTick(t *testing.T) {
	s, clock, agg := startDrill(t, basicMath())
	s, _ = answer(t, s, "4")

	_, cmd := s.Update(timerTickMsg(clock.now))
	if cmd == nil {
		t.Fatal("expected next tick while time remains")
	}
	if s.sess.Phase != session.PhaseActive {
		t.Fatal("drill should still be active")
	}

	clock.now = clock.now.Add(time.Minute)
	_, cmd = s.Update(timerTickMsg(clock.now))
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected summary after time ran out")
	}
	if row := agg.Get(drillgen.CategoryBasicMath); row.Attempted != 1 || row.Correct != 1 {
		t.Errorf("stats = %+v, want 1/1", row)
	}
}

func TestDrillScreen_AnswerAfterTimeUp(t *testing.T) {
	s, clock, _ := startDrill(t, basicMath())
	clock.now = clock.now.Add(2 * time.Minute)

	_, cmd := answer(t, s, "4")
	if cmd == nil {
		t.Fatal("expected summary command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected summary after late answer")
	}
	if s.sess.Attempts != 0 {
		t.Errorf("late answer was scored: attempts = %d", s.sess.Attempts)
	}
}

func TestDrillScreen_CategoricalChoice(t *testing.T) {
	s, _, _ := startDrill(t, session.Config{Category: drillgen.CategoryLogical, Duration: 3 * time.Minute})
	if !s.choiceMode {
		t.Fatal("expected choice mode for a True/False question")
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "Cannot Say") || !strings.Contains(view, "Q1") {
		t.Error("expected choices and chart bars in view")
	}

	var scr screen.Screen = s
	scr.Update(keyPress('1'))
	if s.sess.Attempts != 1 || s.sess.Correct != 1 {
		t.Errorf("attempts/correct = %d/%d, want 1/1", s.sess.Attempts, s.sess.Correct)
	}
}

func TestDrillScreen_KeyHints(t *testing.T) {
	s, _, _ := startDrill(t, basicMath())
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
	s.confirming = true
	if hints := s.KeyHints(); hints[0].Key != "Y" {
		t.Errorf("confirm hints = %+v", hints)
	}
}
