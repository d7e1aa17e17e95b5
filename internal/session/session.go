package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sabta/casedrill/internal/drillgen"
)

// StreakToLevelUp is the number of consecutive correct Basic Math answers
// that raise the difficulty by one.
const StreakToLevelUp = 3

// Merger receives a finished drill's counts. stats.Aggregator implements it.
type Merger interface {
	Merge(c drillgen.Category, attempted, correct int) error
}

// Recorder observes drill lifecycle events, e.g. to keep a history. It must
// not block for long; it runs inside the state transition.
type Recorder interface {
	DrillStarted(s *Session)
	AnswerRecorded(s *Session, r AnswerResult)
	DrillFinished(s *Session, res Result)
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRecorder attaches a lifecycle observer.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// AnswerResult is the outcome of one submission.
type AnswerResult struct {
	Question   drillgen.Question
	Input      string
	Correct    bool
	Expected   drillgen.Answer
	Difficulty int  // difficulty after this answer
	LeveledUp  bool // the answer completed a streak
	Next       *drillgen.Question
	Finished   bool
}

// Result summarizes a finished drill.
type Result struct {
	SessionID       string
	Category        drillgen.Category
	Subcategory     drillgen.Subcategory
	Attempted       int
	Correct         int
	Accuracy        float64 // percent, one decimal place
	FinalDifficulty int
	StartedAt       time.Time
	EndedAt         time.Time
	Duration        time.Duration
	StoppedEarly    bool
}

// Session is one drill. It is owned by a single caller and is not safe for
// concurrent use.
type Session struct {
	ID     string
	Phase  Phase
	Config Config

	StartTime time.Time
	EndTime   time.Time

	Difficulty int
	Attempts   int
	Correct    int
	Streak     int

	// Current is the question in flight while Active.
	Current *drillgen.Question

	// Last holds the most recent submission for feedback display.
	Last *AnswerResult

	// Fault describes an unrecognized configuration reported by the source.
	Fault string

	StoppedEarly bool

	source   drillgen.Source
	merger   Merger
	recorder Recorder
	now      func() time.Time
	result   *Result
}

// New creates an idle session drawing questions from source and merging
// finished counts into merger. merger may be nil.
func New(source drillgen.Source, merger Merger, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.New().String(),
		Phase:  PhaseIdle,
		source: source,
		merger: merger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure stores cfg and moves to PhaseConfiguring. Allowed from Idle,
// Configuring and Finished; a finished drill is cleared first.
func (s *Session) Configure(cfg Config) error {
	switch s.Phase {
	case PhaseActive:
		return fmt.Errorf("configure while %s: %w", s.Phase, ErrWrongPhase)
	case PhaseFinished:
		s.Reset()
	}

	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}
	s.Config = cfg
	s.Difficulty = cfg.Difficulty
	s.Fault = ""
	s.Phase = PhaseConfiguring
	return nil
}

// Start begins the countdown and returns the first question. If the source
// does not recognize the configuration the session stays in
// PhaseConfiguring and ErrUnrecognizedConfig is returned.
func (s *Session) Start() (drillgen.Question, error) {
	if s.Phase != PhaseConfiguring {
		return drillgen.Question{}, fmt.Errorf("start while %s: %w", s.Phase, ErrWrongPhase)
	}

	q := s.source.Generate(s.Config.Category, s.Config.Subcategory, s.Difficulty)
	if q.Unrecognized {
		s.Fault = q.Text
		return q, fmt.Errorf("%s/%s: %w", s.Config.Category, s.Config.Subcategory, ErrUnrecognizedConfig)
	}

	s.StartTime = s.now()
	s.EndTime = s.StartTime.Add(s.Config.Duration)
	s.Attempts, s.Correct, s.Streak = 0, 0, 0
	s.Difficulty = s.Config.Difficulty
	s.Current = &q
	s.Last = nil
	s.Fault = ""
	s.StoppedEarly = false
	s.result = nil
	s.Phase = PhaseActive

	if s.recorder != nil {
		s.recorder.DrillStarted(s)
	}
	return q, nil
}

// SubmitAnswer scores raw against the current question and, unless time ran
// out, replaces it with a new one whether or not the answer was correct.
func (s *Session) SubmitAnswer(raw string) (AnswerResult, error) {
	if s.Phase != PhaseActive {
		return AnswerResult{}, fmt.Errorf("submit while %s: %w", s.Phase, ErrWrongPhase)
	}
	if s.expired() {
		s.finish()
		return AnswerResult{Finished: true}, ErrSessionExpired
	}
	if s.Current == nil {
		return AnswerResult{}, fmt.Errorf("%s: %w", s.Fault, ErrUnrecognizedConfig)
	}

	q := *s.Current
	correct := drillgen.CheckAnswer(raw, q.Answer)
	s.Attempts++

	res := AnswerResult{
		Question: q,
		Input:    raw,
		Correct:  correct,
		Expected: q.Answer,
	}

	adaptive := drillgen.IsAdaptive(s.Config.Category)
	if correct {
		s.Correct++
		if adaptive {
			s.Streak++
			if s.Streak >= StreakToLevelUp && s.Difficulty < drillgen.MaxDifficulty {
				s.Difficulty++
				s.Streak = 0
				res.LeveledUp = true
			}
		}
	} else if adaptive {
		s.Streak = 0
	}
	res.Difficulty = s.Difficulty

	if s.expired() {
		res.Finished = true
		s.Last = &res
		s.record(res)
		s.finish()
		return res, nil
	}

	next := s.source.Generate(s.Config.Category, s.Config.Subcategory, s.Difficulty)
	if next.Unrecognized {
		s.Current = nil
		s.Fault = next.Text
		s.Last = &res
		s.record(res)
		return res, fmt.Errorf("%s/%s: %w", s.Config.Category, s.Config.Subcategory, ErrUnrecognizedConfig)
	}
	s.Current = &next
	res.Next = &next
	s.Last = &res
	s.record(res)
	return res, nil
}

// CheckTimeout finishes the drill if its time budget is spent. It reports
// whether the drill is finished.
func (s *Session) CheckTimeout() bool {
	if s.Phase == PhaseActive && s.expired() {
		s.finish()
	}
	return s.Phase == PhaseFinished
}

// Stop ends an active drill early, as if the budget ran out now.
func (s *Session) Stop() (Result, error) {
	if s.Phase != PhaseActive {
		if s.Phase == PhaseFinished {
			return *s.result, nil
		}
		return Result{}, fmt.Errorf("stop while %s: %w", s.Phase, ErrWrongPhase)
	}
	if now := s.now(); now.Before(s.EndTime) {
		s.EndTime = now
		s.StoppedEarly = true
	}
	s.finish()
	return *s.result, nil
}

// Finalize returns the drill's result, finishing an active drill first.
// Counts are merged into the aggregator exactly once; repeated calls return
// the same result.
func (s *Session) Finalize() Result {
	switch s.Phase {
	case PhaseActive:
		if !s.expired() {
			s.Stop()
		} else {
			s.finish()
		}
	case PhaseFinished:
	default:
		return Result{SessionID: s.ID, Category: s.Config.Category, Subcategory: s.Config.Subcategory}
	}
	return *s.result
}

// Reset clears every drill-scoped field and returns to PhaseIdle under a
// new ID. Lifetime stats are untouched.
func (s *Session) Reset() {
	*s = Session{
		ID:       uuid.New().String(),
		Phase:    PhaseIdle,
		source:   s.source,
		merger:   s.merger,
		recorder: s.recorder,
		now:      s.now,
	}
}

// Remaining returns the time left. It is never negative.
func (s *Session) Remaining() time.Duration {
	switch s.Phase {
	case PhaseActive:
		left := s.EndTime.Sub(s.now())
		if left < 0 {
			return 0
		}
		return left
	case PhaseConfiguring:
		return s.Config.Duration
	default:
		return 0
	}
}

// Elapsed returns the time since Start, capped at the end time.
func (s *Session) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	end := s.now()
	if s.Phase == PhaseFinished || end.After(s.EndTime) {
		end = s.EndTime
	}
	return end.Sub(s.StartTime)
}

func (s *Session) expired() bool {
	return !s.now().Before(s.EndTime)
}

func (s *Session) record(res AnswerResult) {
	if s.recorder != nil {
		s.recorder.AnswerRecorded(s, res)
	}
}

func (s *Session) finish() {
	if s.result != nil {
		s.Phase = PhaseFinished
		return
	}
	s.Phase = PhaseFinished
	s.Current = nil

	res := Result{
		SessionID:       s.ID,
		Category:        s.Config.Category,
		Subcategory:     s.Config.Subcategory,
		Attempted:       s.Attempts,
		Correct:         s.Correct,
		Accuracy:        Accuracy(s.Correct, s.Attempts),
		FinalDifficulty: s.Difficulty,
		StartedAt:       s.StartTime,
		EndedAt:         s.EndTime,
		Duration:        s.EndTime.Sub(s.StartTime),
		StoppedEarly:    s.StoppedEarly,
	}
	s.result = &res

	if s.merger != nil {
		// Counts satisfy attempts >= correct >= 0 by construction.
		_ = s.merger.Merge(res.Category, res.Attempted, res.Correct)
	}
	if s.recorder != nil {
		s.recorder.DrillFinished(s, res)
	}
}

// Accuracy returns correct/attempts as a percentage rounded to one decimal
// place, or 0 when nothing was attempted. Rounding is that of the "%.1f"
// shown on the summary: exact ties go to the even digit, so 1/16 is 6.2.
func Accuracy(correct, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	pct := float64(correct) / float64(attempts) * 100
	v, _ := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 1, 64), 64)
	return v
}
