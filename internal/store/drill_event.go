package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendDrillStart(ctx context.Context, data DrillStartData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := entsql.Dialect(dialect.SQLite).
		Insert(tableDrillSessions).
		Columns("id", "sequence", "category", "subcategory", "difficulty", "duration_secs", "started_at").
		Values(data.SessionID, seqNum, data.Category, data.Subcategory, data.Difficulty,
			int64(data.Duration/time.Second), toMillis(data.StartedAt))
	if err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("save drill start: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendDrillAnswer(ctx context.Context, data DrillAnswerData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := entsql.Dialect(dialect.SQLite).
		Insert(tableDrillAnswers).
		Columns("sequence", "session_id", "category", "subcategory", "difficulty",
			"question", "expected", "given", "correct", "answered_at").
		Values(seqNum, data.SessionID, data.Category, data.Subcategory, data.Difficulty,
			data.Question, data.Expected, data.Given, data.Correct, toMillis(data.AnsweredAt))
	if err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("save drill answer: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendDrillEnd(ctx context.Context, data DrillEndData) error {
	update := entsql.Dialect(dialect.SQLite).
		Update(tableDrillSessions).
		Set("ended_at", toMillis(data.EndedAt)).
		Set("attempted", data.Attempted).
		Set("correct", data.Correct).
		Set("accuracy", data.Accuracy).
		Set("final_difficulty", data.FinalDifficulty).
		Set("stopped_early", data.StoppedEarly).
		Set("finished", true).
		Where(entsql.EQ("id", data.SessionID))
	if err := r.exec(ctx, update); err != nil {
		return fmt.Errorf("save drill end: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentDrills(ctx context.Context, opts QueryOpts) ([]DrillRecord, error) {
	t := entsql.Table(tableDrillSessions)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("id"), t.C("category"), t.C("subcategory"), t.C("difficulty"),
			t.C("duration_secs"), t.C("started_at"), t.C("ended_at"),
			t.C("attempted"), t.C("correct"), t.C("accuracy"),
			t.C("final_difficulty"), t.C("stopped_early"), t.C("finished"),
		).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(t.C("started_at"), toMillis(opts.From)))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var out []DrillRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec            DrillRecord
			durSecs        int64
			started, ended int64
		)
		if err := rows.Scan(&rec.SessionID, &rec.Category, &rec.Subcategory, &rec.Difficulty,
			&durSecs, &started, &ended, &rec.Attempted, &rec.Correct, &rec.Accuracy,
			&rec.FinalDifficulty, &rec.StoppedEarly, &rec.Finished); err != nil {
			return err
		}
		rec.Duration = time.Duration(durSecs) * time.Second
		rec.StartedAt = fromMillis(started)
		rec.EndedAt = fromMillis(ended)
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query drills: %w", err)
	}
	return out, nil
}

func (r *eventRepo) DrillAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	t := entsql.Table(tableDrillAnswers)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("sequence"), t.C("session_id"), t.C("category"), t.C("subcategory"),
			t.C("difficulty"), t.C("question"), t.C("expected"), t.C("given"),
			t.C("correct"), t.C("answered_at"),
		).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence"))

	var out []AnswerRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec AnswerRecord
			at  int64
		)
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.Category, &rec.Subcategory,
			&rec.Difficulty, &rec.Question, &rec.Expected, &rec.Given, &rec.Correct, &at); err != nil {
			return err
		}
		rec.AnsweredAt = fromMillis(at)
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query drill answers: %w", err)
	}
	return out, nil
}

func (r *eventRepo) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	t := entsql.Table(tableDrillSessions)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("category"),
			entsql.As(entsql.Count("*"), "drills"),
			entsql.As(entsql.Sum(t.C("attempted")), "attempted"),
			entsql.As(entsql.Sum(t.C("correct")), "correct"),
		).
		From(t).
		Where(entsql.EQ(t.C("finished"), true)).
		GroupBy(t.C("category")).
		OrderBy(t.C("category"))

	var out []CategoryTotal
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Drills, &ct.Attempted, &ct.Correct); err != nil {
			return err
		}
		out = append(out, ct)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	return out, nil
}
