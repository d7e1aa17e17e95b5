package sparring

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBankShape(t *testing.T) {
	topics := Topics()
	assert.Len(t, topics, 12)
	for _, name := range topics {
		assert.Len(t, Prompts(name), 5, name)
	}
	assert.Nil(t, Prompts("Astrology"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no topics", Config{}, ErrNoTopics},
		{"unknown topic", Config{Topics: []string{"Astrology"}}, ErrUnknownTopic},
		{"count too high", Config{Topics: []string{"Punches"}, Count: 31}, ErrInvalidCount},
		{"negative count", Config{Topics: []string{"Punches"}, Count: -1}, ErrInvalidCount},
		{"timer too short", Config{Topics: []string{"Punches"}, TimeLimit: 5 * time.Second}, ErrInvalidTimer},
		{"timer too long", Config{Topics: []string{"Punches"}, TimeLimit: 301 * time.Second}, ErrInvalidTimer},
		{"timer off", Config{Topics: []string{"Punches"}}, nil},
		{"bounds", Config{Topics: []string{"Punches"}, Count: 30, TimeLimit: 300 * time.Second}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewBuildsQueue(t *testing.T) {
	s, err := New(Config{Topics: []string{"Finance - Basic", "Brain Teasers"}}, seeded())
	require.NoError(t, err)

	assert.Equal(t, DefaultCount, s.Config.Count)
	assert.Equal(t, 10, s.Len())
	assert.NotEmpty(t, s.ID)

	seen := map[string]bool{}
	for !s.Done() {
		item, ok := s.Current()
		require.True(t, ok)
		assert.Contains(t, Prompts(item.Topic), item.Prompt)
		assert.False(t, seen[item.Prompt], "duplicate prompt %q", item.Prompt)
		seen[item.Prompt] = true
		s.Next()
	}
	assert.Len(t, seen, 10)
}

func TestNewQueuesRepeatedTopicOnce(t *testing.T) {
	const topic = "Brain Teasers"
	s, err := New(Config{Topics: []string{topic, topic}, Count: MaxCount}, seeded())
	require.NoError(t, err)

	assert.Equal(t, []string{topic}, s.Config.Topics)
	assert.Equal(t, len(Prompts(topic)), s.Len())

	seen := map[string]bool{}
	for {
		item, ok := s.Current()
		if !ok {
			break
		}
		assert.False(t, seen[item.Prompt], "prompt queued twice: %q", item.Prompt)
		seen[item.Prompt] = true
		s.Next()
	}
}

func TestQueueTruncatedToCount(t *testing.T) {
	s, err := New(Config{Topics: []string{"Punches"}, Count: 3}, seeded())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	// Asking for more than the topics hold yields every prompt once.
	s, err = New(Config{Topics: []string{"Punches"}, Count: 30}, seeded())
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())
}

func TestNextAndEnd(t *testing.T) {
	s, err := New(Config{Topics: []string{"Personal Fit - Why"}, Count: 2}, seeded())
	require.NoError(t, err)

	assert.Equal(t, 0, s.Index())
	assert.True(t, s.Next())
	assert.Equal(t, 1, s.Index())
	assert.False(t, s.Next())
	assert.True(t, s.Done())
	assert.False(t, s.Next())

	_, ok := s.Current()
	assert.False(t, ok)

	s, err = New(Config{Topics: []string{"Personal Fit - Why"}}, seeded())
	require.NoError(t, err)
	s.End()
	assert.True(t, s.Done())
	_, err = s.Record("because")
	assert.ErrorIs(t, err, ErrRoundFinished)
}

func TestRemaining(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	untimed, err := New(Config{Topics: []string{"Punches"}}, seeded(), WithClock(c.now))
	require.NoError(t, err)
	_, limited := untimed.Remaining()
	assert.False(t, limited)

	s, err := New(Config{Topics: []string{"Punches"}, TimeLimit: 60 * time.Second}, seeded(), WithClock(c.now))
	require.NoError(t, err)

	c.advance(20 * time.Second)
	left, limited := s.Remaining()
	assert.True(t, limited)
	assert.Equal(t, 40*time.Second, left)

	c.advance(time.Minute)
	left, _ = s.Remaining()
	assert.Equal(t, time.Duration(0), left)

	// Moving on restarts the per-question clock.
	s.Next()
	left, _ = s.Remaining()
	assert.Equal(t, 60*time.Second, left)
}

func TestRecordAndAttach(t *testing.T) {
	s, err := New(Config{Topics: []string{"Economics - Basic"}, Count: 2}, seeded())
	require.NoError(t, err)

	first, err := s.Record("draft")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)

	// A second answer to the same question replaces the first.
	_, err = s.Record("final")
	require.NoError(t, err)
	require.Len(t, s.Replies(), 1)
	assert.Equal(t, "final", s.Replies()[0].Answer)

	s.Next()
	_, err = s.Record("second")
	require.NoError(t, err)

	assert.True(t, s.Attach(0, Feedback{Score: 8, Summary: "Crisp"}))
	assert.False(t, s.Attach(5, Feedback{}))

	replies := s.Replies()
	require.Len(t, replies, 2)
	require.NotNil(t, replies[0].Feedback)
	assert.Equal(t, 8, replies[0].Feedback.Score)
	assert.Nil(t, replies[1].Feedback)

	last, ok := s.LastReply()
	require.True(t, ok)
	assert.Equal(t, "second", last.Answer)
}
