package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableDrillSessions   = "drill_sessions"
	tableDrillAnswers    = "drill_answers"
	tableSparringAnswers = "sparring_answers"
	tableLLMRequests     = "llm_requests"
)

// schema lists the DDL applied on every Open. Timestamps are unix
// milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS drill_sessions (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT NOT NULL DEFAULT '',
		difficulty INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL DEFAULT 0,
		attempted INTEGER NOT NULL DEFAULT 0,
		correct INTEGER NOT NULL DEFAULT 0,
		accuracy REAL NOT NULL DEFAULT 0,
		final_difficulty INTEGER NOT NULL DEFAULT 0,
		stopped_early BOOLEAN NOT NULL DEFAULT false,
		finished BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS drill_answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT NOT NULL DEFAULT '',
		difficulty INTEGER NOT NULL DEFAULT 0,
		question TEXT NOT NULL,
		expected TEXT NOT NULL,
		given TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		answered_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sparring_answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		prompt TEXT NOT NULL,
		answer TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		feedback TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS drill_sessions_category ON drill_sessions (category)`,
	`CREATE INDEX IF NOT EXISTS drill_answers_session ON drill_answers (session_id)`,
	`CREATE INDEX IF NOT EXISTS sparring_answers_session ON sparring_answers (session_id)`,
	`CREATE INDEX IF NOT EXISTS llm_requests_purpose ON llm_requests (purpose)`,
}

// migrate creates missing tables and indexes.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
