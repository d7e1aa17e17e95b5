// Package sparring runs rapid-fire interview Q&A rounds over a fixed bank
// of prompts, with an optional per-question timer and AI feedback.
package sparring

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCount = 10
	MaxCount     = 30

	DefaultTimeLimit = 100 * time.Second
	MinTimeLimit     = 10 * time.Second
	MaxTimeLimit     = 300 * time.Second
)

var (
	ErrNoTopics      = errors.New("at least one topic is required")
	ErrUnknownTopic  = errors.New("unknown topic")
	ErrInvalidCount  = errors.New("question count out of range")
	ErrInvalidTimer  = errors.New("time limit out of range")
	ErrRoundFinished = errors.New("round finished")
)

// Config selects what a round asks.
type Config struct {
	Topics []string `json:"topics"`

	// Count caps the number of questions. Zero means DefaultCount.
	Count int `json:"count"`

	// TimeLimit is the per-question budget. Zero disables the timer.
	TimeLimit time.Duration `json:"time_limit"`
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if len(c.Topics) == 0 {
		return ErrNoTopics
	}
	for _, t := range c.Topics {
		if Prompts(t) == nil {
			return fmt.Errorf("%q: %w", t, ErrUnknownTopic)
		}
	}
	if c.Count < 0 || c.Count > MaxCount {
		return fmt.Errorf("%d: %w", c.Count, ErrInvalidCount)
	}
	if c.TimeLimit != 0 && (c.TimeLimit < MinTimeLimit || c.TimeLimit > MaxTimeLimit) {
		return fmt.Errorf("%s: %w", c.TimeLimit, ErrInvalidTimer)
	}
	return nil
}

// Item is one queued prompt.
type Item struct {
	Topic  string `json:"topic"`
	Prompt string `json:"prompt"`
}

// Reply is the candidate's answer to an item, with coach feedback once
// requested.
type Reply struct {
	Item
	Index      int       `json:"index"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
	Feedback   *Feedback `json:"feedback,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one sparring round. It is not safe for concurrent use.
type Session struct {
	ID     string
	Config Config

	queue   []Item
	index   int
	asked   time.Time // when the current item was shown
	ended   bool
	replies []Reply
	now     func() time.Time
}

// New builds a round from cfg. The queue is every prompt of the selected
// topics, shuffled with rng and truncated to the configured count. A topic
// listed twice is queued once. A nil rng is seeded from the clock.
func New(cfg Config, rng *rand.Rand, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Topics = uniqueTopics(cfg.Topics)
	if cfg.Count == 0 {
		cfg.Count = DefaultCount
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	var queue []Item
	for _, t := range cfg.Topics {
		for _, p := range Prompts(t) {
			queue = append(queue, Item{Topic: t, Prompt: p})
		}
	}
	rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	if len(queue) > cfg.Count {
		queue = queue[:cfg.Count]
	}

	s := &Session{
		ID:     uuid.New().String(),
		Config: cfg,
		queue:  queue,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.asked = s.now()
	return s, nil
}

// Len returns the number of queued questions.
func (s *Session) Len() int { return len(s.queue) }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Done reports whether the round is over.
func (s *Session) Done() bool { return s.ended || s.index >= len(s.queue) }

// Current returns the question being asked. ok is false once the round is
// over.
func (s *Session) Current() (item Item, ok bool) {
	if s.Done() {
		return Item{}, false
	}
	return s.queue[s.index], true
}

// Next advances to the following question and restarts its timer. It
// reports whether a question remains.
func (s *Session) Next() bool {
	if s.Done() {
		return false
	}
	s.index++
	s.asked = s.now()
	return !s.Done()
}

// End stops the round early.
func (s *Session) End() { s.ended = true }

// Remaining returns the time left on the current question. limited is
// false when the round has no timer.
func (s *Session) Remaining() (left time.Duration, limited bool) {
	if s.Config.TimeLimit == 0 {
		return 0, false
	}
	if s.Done() {
		return 0, true
	}
	left = s.Config.TimeLimit - s.now().Sub(s.asked)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Record stores answer against the current question. Answering again
// replaces the previous reply.
func (s *Session) Record(answer string) (Reply, error) {
	item, ok := s.Current()
	if !ok {
		return Reply{}, ErrRoundFinished
	}
	r := Reply{Item: item, Index: s.index, Answer: answer, AnsweredAt: s.now()}
	if n := len(s.replies); n > 0 && s.replies[n-1].Index == s.index {
		s.replies[n-1] = r
	} else {
		s.replies = append(s.replies, r)
	}
	return r, nil
}

// Attach sets feedback on the reply to question index.
func (s *Session) Attach(index int, fb Feedback) bool {
	for i := range s.replies {
		if s.replies[i].Index == index {
			s.replies[i].Feedback = &fb
			return true
		}
	}
	return false
}

// LastReply returns the reply to the current or most recent question.
func (s *Session) LastReply() (Reply, bool) {
	if len(s.replies) == 0 {
		return Reply{}, false
	}
	return s.replies[len(s.replies)-1], true
}

// Replies returns the recorded replies in question order.
func (s *Session) Replies() []Reply {
	return append([]Reply(nil), s.replies...)
}

func uniqueTopics(topics []string) []string {
	seen := make(map[string]bool, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
