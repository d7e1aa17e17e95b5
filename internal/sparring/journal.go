package sparring

import (
	"context"

	"github.com/sabta/casedrill/internal/store"
)

// Save appends r to the event log under the round's ID.
func Save(ctx context.Context, repo store.EventRepo, sessionID string, r Reply) error {
	data := store.SparringAnswerData{
		SessionID: sessionID,
		Topic:     r.Topic,
		Prompt:    r.Prompt,
		Answer:    r.Answer,
	}
	if r.Feedback != nil {
		data.Score = r.Feedback.Score
		data.Feedback = r.Feedback.Summary
	}
	return repo.AppendSparringAnswer(ctx, data)
}
