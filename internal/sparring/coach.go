package sparring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sabta/casedrill/internal/llm"
)

// ErrEmptyAnswer is returned when there is nothing to review.
var ErrEmptyAnswer = errors.New("answer is empty")

// Feedback is the coach's assessment of one answer.
type Feedback struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

var feedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Assessment of a consulting interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     10,
				"description": "Overall quality from 1 (poor) to 10 (excellent)",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "What the candidate did well",
			},
			"improvements": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concrete changes that would raise the score",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Two sentences an interviewer would say out loud",
			},
		},
		"required":             []any{"score", "strengths", "improvements", "summary"},
		"additionalProperties": false,
	},
}

const coachSystemPrompt = `You are a partner at a strategy consulting firm running a first-round interview.
Grade the candidate's answer to the question for structure, insight and communication.
Be direct. Keep each strength and improvement to one short sentence, at most three of each.`

// Coach reviews sparring answers with a language model.
type Coach struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewCoach returns a Coach calling p. timeout bounds each review; zero
// means no bound beyond the caller's context.
func NewCoach(p llm.Provider, timeout time.Duration) *Coach {
	return &Coach{provider: p, timeout: timeout}
}

// Review asks the model to grade answer. A reply outside the feedback
// schema fails with an llm.KindInvalid error naming the bad field.
func (c *Coach) Review(ctx context.Context, item Item, answer string) (Feedback, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Feedback{}, ErrEmptyAnswer
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.provider.Generate(ctx, llm.Request{
		Purpose: llm.PurposeFeedback,
		System:  coachSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Topic: %s\nQuestion: %s\n\nCandidate answer:\n%s", item.Topic, item.Prompt, answer),
		}},
		Schema: feedbackSchema,
	})
	if err != nil {
		return Feedback{}, fmt.Errorf("review answer: %w", err)
	}

	var fb Feedback
	if err := json.Unmarshal(resp.Content, &fb); err != nil {
		return Feedback{}, &llm.Error{Kind: llm.KindInvalid, Content: resp.Content, Err: err}
	}
	return fb, nil
}
