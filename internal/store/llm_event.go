package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := entsql.Dialect(dialect.SQLite).
		Insert(tableLLMRequests).
		Columns("sequence", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body", "created_at").
		Values(seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
			toMillis(time.Now()))
	if err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func llmEventSelector() *entsql.Selector {
	t := entsql.Table(tableLLMRequests)
	return entsql.Dialect(dialect.SQLite).
		Select(
			t.C("id"), t.C("sequence"), t.C("created_at"), t.C("provider"), t.C("model"),
			t.C("purpose"), t.C("input_tokens"), t.C("output_tokens"), t.C("latency_ms"),
			t.C("success"), t.C("error_message"), t.C("request_body"), t.C("response_body"),
		).
		From(t)
}

func scanLLMEvent(rows *entsql.Rows) (LLMRequestEventRecord, error) {
	var (
		rec LLMRequestEventRecord
		at  int64
	)
	err := rows.Scan(&rec.ID, &rec.Sequence, &at, &rec.Provider, &rec.Model,
		&rec.Purpose, &rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
		&rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
	rec.Timestamp = fromMillis(at)
	return rec, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := llmEventSelector().OrderBy(entsql.Desc("sequence"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", toMillis(opts.From)))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var out []LLMRequestEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	sel := llmEventSelector().Where(entsql.EQ("id", id)).Limit(1)

	var found *LLMRequestEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		found = &rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return found, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	t := entsql.Table(tableLLMRequests)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("purpose"),
			entsql.As(entsql.Count("*"), "calls"),
			"SUM(CASE WHEN "+t.C("success")+" THEN 0 ELSE 1 END)",
			entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
			entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
			"CAST(AVG("+t.C("latency_ms")+") AS INTEGER)",
		).
		From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose"))

	var out []LLMUsageStats
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var st LLMUsageStats
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.Failures,
			&st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return err
		}
		out = append(out, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	t := entsql.Table(tableLLMRequests)
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			t.C("model"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
			entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
		).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model"))

	var out []LLMModelUsage
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var mu LLMModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens); err != nil {
			return err
		}
		out = append(out, mu)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM model usage: %w", err)
	}
	return out, nil
}
