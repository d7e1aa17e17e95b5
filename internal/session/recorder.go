package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/telemetry"
)

// writeTimeout bounds each history write so a slow disk cannot stall a drill.
const writeTimeout = 2 * time.Second

// EventRecorder persists drill lifecycle events to the event log, one span
// per write. Write failures are reported on stderr and otherwise ignored: a
// drill never fails because its history could not be saved.
type EventRecorder struct {
	repo store.EventRepo
}

// NewEventRecorder returns a Recorder writing to repo.
func NewEventRecorder(repo store.EventRepo) *EventRecorder {
	return &EventRecorder{repo: repo}
}

func (r *EventRecorder) DrillStarted(s *Session) {
	r.write("drill start", s, func(ctx context.Context) error {
		return r.repo.AppendDrillStart(ctx, store.DrillStartData{
			SessionID:   s.ID,
			Category:    string(s.Config.Category),
			Subcategory: string(s.Config.Subcategory),
			Difficulty:  s.Config.Difficulty,
			Duration:    s.Config.Duration,
			StartedAt:   s.StartTime,
		})
	})
}

func (r *EventRecorder) AnswerRecorded(s *Session, res AnswerResult) {
	r.write("drill answer", s, func(ctx context.Context) error {
		return r.repo.AppendDrillAnswer(ctx, store.DrillAnswerData{
			SessionID:   s.ID,
			Category:    string(res.Question.Category),
			Subcategory: string(res.Question.Subcategory),
			Difficulty:  res.Question.Difficulty,
			Question:    res.Question.Text,
			Expected:    res.Expected.String(),
			Given:       res.Input,
			Correct:     res.Correct,
			AnsweredAt:  s.now(),
		})
	})
}

func (r *EventRecorder) DrillFinished(s *Session, res Result) {
	r.write("drill end", s, func(ctx context.Context) error {
		return r.repo.AppendDrillEnd(ctx, store.DrillEndData{
			SessionID:       res.SessionID,
			EndedAt:         res.EndedAt,
			Attempted:       res.Attempted,
			Correct:         res.Correct,
			Accuracy:        res.Accuracy,
			FinalDifficulty: res.FinalDifficulty,
			StoppedEarly:    res.StoppedEarly,
		})
	})
}

func (r *EventRecorder) write(what string, s *Session, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer().Start(ctx, what)
	defer span.End()
	span.SetAttributes(
		attribute.String("drill.id", s.ID),
		attribute.String("drill.category", string(s.Config.Category)),
		attribute.Int("drill.attempts", s.Attempts),
	)

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fmt.Fprintf(os.Stderr, "warning: failed to log %s: %v\n", what, err)
	}
}
