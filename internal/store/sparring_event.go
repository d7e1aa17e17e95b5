package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSparringAnswer(ctx context.Context, data SparringAnswerData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := entsql.Dialect(dialect.SQLite).
		Insert(tableSparringAnswers).
		Columns("sequence", "session_id", "topic", "prompt", "answer", "score", "feedback", "created_at").
		Values(seqNum, data.SessionID, data.Topic, data.Prompt, data.Answer, data.Score, data.Feedback,
			toMillis(time.Now()))
	if err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("save sparring answer: %w", err)
	}
	return nil
}

func (r *eventRepo) SparringAnswers(ctx context.Context, sessionID string) ([]SparringAnswerRecord, error) {
	t := entsql.Table(tableSparringAnswers)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("sequence"), t.C("created_at"), t.C("session_id"), t.C("topic"),
			t.C("prompt"), t.C("answer"), t.C("score"), t.C("feedback"),
		).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence"))

	var out []SparringAnswerRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec SparringAnswerRecord
			at  int64
		)
		if err := rows.Scan(&rec.Sequence, &at, &rec.SessionID, &rec.Topic,
			&rec.Prompt, &rec.Answer, &rec.Score, &rec.Feedback); err != nil {
			return err
		}
		rec.Timestamp = fromMillis(at)
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query sparring answers: %w", err)
	}
	return out, nil
}
