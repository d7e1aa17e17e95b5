package sparring

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/llm"
	"github.com/sabta/casedrill/internal/router"
	sparr "github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	saved []store.SparringAnswerData
}

func (r *recordingRepo) AppendSparringAnswer(_ context.Context, data store.SparringAnswerData) error {
	r.saved = append(r.saved, data)
	return nil
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *SparringScreen, text string) {
	for _, r := range text {
		s.Update(char(r))
	}
}

// run executes cmd, expanding batches, and feeds every message back into s.
func run(s *SparringScreen, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(s, c)...)
		}
		return out
	}
	switch msg.(type) {
	case feedbackMsg, savedMsg:
		_, next := s.Update(msg)
		return append([]tea.Msg{msg}, run(s, next)...)
	}
	return []tea.Msg{msg}
}

// startUntimed picks the first topic, the default count and no timer.
func startUntimed(t *testing.T, s *SparringScreen) {
	t.Helper()
	s.Update(char(' '))
	s.Update(key(tea.KeyEnter))
	if s.phase != phaseCount {
		t.Fatalf("phase = %d, want count", s.phase)
	}
	s.Update(key(tea.KeyEnter))
	if s.count != 10 {
		t.Errorf("count = %d, want 10", s.count)
	}
	s.Update(key(tea.KeyUp))
	s.Update(key(tea.KeyUp))
	s.Update(key(tea.KeyEnter))
	if s.phase != phaseRound {
		t.Fatalf("phase = %d, want round (err %q)", s.phase, s.errMsg)
	}
}

func TestSparring_TopicRequired(t *testing.T) {
	s := New(nil, nil)
	s.Update(key(tea.KeyEnter))
	if s.phase != phaseTopics {
		t.Error("should stay on topics with nothing picked")
	}
	if !strings.Contains(s.View(100, 40), "Pick at least one topic") {
		t.Error("expected prompt to pick a topic")
	}
}

func TestSparring_SetupBuildsRound(t *testing.T) {
	s := New(nil, nil)
	startUntimed(t, s)

	want := len(sparr.Prompts(sparr.Topics()[0]))
	if s.round.Len() != want {
		t.Errorf("round length = %d, want %d", s.round.Len(), want)
	}
	if _, limited := s.round.Remaining(); limited {
		t.Error("round should be untimed")
	}
	if !strings.Contains(s.View(100, 40), "Question 1 of") {
		t.Error("expected question counter")
	}
}

func TestSparring_EscStepsBackThroughSetup(t *testing.T) {
	s := New(nil, nil)
	s.Update(char(' '))
	s.Update(key(tea.KeyEnter))
	s.Update(key(tea.KeyEnter))
	if s.phase != phaseTimer {
		t.Fatalf("phase = %d, want timer", s.phase)
	}
	s.Update(key(tea.KeyEscape))
	if s.phase != phaseCount {
		t.Errorf("phase = %d, want count", s.phase)
	}
	s.Update(key(tea.KeyEscape))
	if s.phase != phaseTopics {
		t.Errorf("phase = %d, want topics", s.phase)
	}
	_, cmd := s.Update(key(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop from topics")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSparring_RecordAndNext(t *testing.T) {
	repo := &recordingRepo{}
	s := New(nil, repo)
	startUntimed(t, s)

	typeText(s, "grow share")
	_, cmd := s.Update(key(tea.KeyEnter))
	run(s, cmd)

	reply, ok := s.round.LastReply()
	if !ok || reply.Answer != "grow share" || reply.Index != 0 {
		t.Fatalf("reply = %+v, %v", reply, ok)
	}
	if len(repo.saved) != 1 || repo.saved[0].Answer != "grow share" {
		t.Errorf("saved = %+v", repo.saved)
	}

	_, cmd = s.Update(key(tea.KeyTab))
	run(s, cmd)
	if s.round.Index() != 1 {
		t.Errorf("index = %d, want 1", s.round.Index())
	}
	if s.input.Value() != "" {
		t.Error("input should be cleared for the next question")
	}
}

func TestSparring_NextSavesUnsavedText(t *testing.T) {
	repo := &recordingRepo{}
	s := New(nil, repo)
	startUntimed(t, s)

	typeText(s, "cut costs")
	_, cmd := s.Update(key(tea.KeyTab))
	run(s, cmd)

	if len(s.round.Replies()) != 1 || len(repo.saved) != 1 {
		t.Errorf("replies = %d, saved = %d; want 1, 1", len(s.round.Replies()), len(repo.saved))
	}
}

func TestSparring_Feedback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte(`{"score":8,"strengths":["Clear structure"],"improvements":["Quantify"],"summary":"Solid."}`),
	})
	repo := &recordingRepo{}
	s := New(sparr.NewCoach(mock, 0), repo)
	startUntimed(t, s)

	typeText(s, "profit tree")
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl})
	if !s.pending {
		t.Error("expected pending feedback")
	}
	run(s, cmd)

	reply, _ := s.round.LastReply()
	if reply.Feedback == nil || reply.Feedback.Score != 8 {
		t.Fatalf("feedback = %+v", reply.Feedback)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Score 8/10") || !strings.Contains(view, "Clear structure") {
		t.Errorf("feedback not rendered:\n%s", view)
	}
	if len(repo.saved) != 2 || repo.saved[1].Score != 8 {
		t.Errorf("saved = %+v", repo.saved)
	}
}

func TestSparring_FeedbackNeedsAnswer(t *testing.T) {
	s := New(sparr.NewCoach(llm.NewMockProvider(), 0), nil)
	startUntimed(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Error("no request without an answer")
	}
	if !strings.Contains(s.View(100, 40), "Save an answer first") {
		t.Error("expected hint")
	}
}

func TestSparring_FeedbackDisabledWithoutCoach(t *testing.T) {
	s := New(nil, nil)
	startUntimed(t, s)
	typeText(s, "x")
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}); cmd != nil {
		t.Error("feedback should be off without a coach")
	}
	for _, h := range s.KeyHints() {
		if h.Key == "Ctrl+F" {
			t.Error("feedback hint shown without a coach")
		}
	}
}

func TestSparring_EscEndsRoundWithRecap(t *testing.T) {
	s := New(nil, nil)
	startUntimed(t, s)
	typeText(s, "answer")
	s.Update(key(tea.KeyEnter))

	s.Update(key(tea.KeyEscape))
	if s.phase != phaseRecap || !s.round.Done() {
		t.Fatal("esc should end the round")
	}
	if !strings.Contains(s.View(100, 40), "Answered 1 of") {
		t.Error("recap missing count")
	}

	_, cmd := s.Update(key(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop from recap")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSparring_HandlesEsc(t *testing.T) {
	if !New(nil, nil).HandlesEsc() {
		t.Error("sparring screen handles its own Esc")
	}
}
