package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MaxFactor is the largest operand in the question catalogue.
const MaxFactor = 9

// Timestamps are stored as unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT    NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id     INTEGER PRIMARY KEY,
		a      INTEGER NOT NULL,
		b      INTEGER NOT NULL,
		answer INTEGER NOT NULL,
		UNIQUE (a, b)
	)`,
	`CREATE TABLE IF NOT EXISTS question_progress (
		user_id           INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_id       INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		ease_factor       REAL    NOT NULL,
		interval_days     INTEGER NOT NULL,
		repetitions       INTEGER NOT NULL,
		next_review       INTEGER NOT NULL,
		last_reviewed     INTEGER NOT NULL,
		total_attempts    INTEGER NOT NULL,
		correct_count     INTEGER NOT NULL,
		wrong_count       INTEGER NOT NULL,
		avg_response_time REAL    NOT NULL,
		PRIMARY KEY (user_id, question_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_next_review ON question_progress (user_id, next_review)`,
	`CREATE TABLE IF NOT EXISTS game_sessions (
		id                 TEXT    PRIMARY KEY,
		user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		started_at         INTEGER NOT NULL,
		ended_at           INTEGER,
		questions_answered INTEGER NOT NULL DEFAULT 0,
		correct_answers    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_sessions_user ON game_sessions (user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		sequence      INTEGER PRIMARY KEY,
		user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		session_id    TEXT    NOT NULL DEFAULT '',
		question_id   INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		answer        INTEGER NOT NULL,
		correct       INTEGER NOT NULL,
		response_time REAL    NOT NULL,
		timestamp     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_events_session ON answer_events (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_events_user ON answer_events (user_id, sequence)`,
}

// migrate creates the schema and seeds the question catalogue. It is safe
// to run against an existing database.
func migrate(ctx context.Context, db *sql.DB) error {
	if err := checkLegacy(ctx, db); err != nil {
		return err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return seedQuestions(ctx, db)
}

// seedQuestions inserts every a×b for 1 ≤ a, b ≤ MaxFactor.
func seedQuestions(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO questions (id, a, b, answer) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for a := 1; a <= MaxFactor; a++ {
		for b := 1; b <= MaxFactor; b++ {
			if _, err := stmt.ExecContext(ctx, QuestionID(a, b), a, b, a*b); err != nil {
				return fmt.Errorf("seed %d×%d: %w", a, b, err)
			}
		}
	}
	return tx.Commit()
}

// ErrLegacySchema is returned when opening a database created before
// learner profiles existed.
var ErrLegacySchema = errors.New("database predates learner profiles; remove it or point --db elsewhere")

// checkLegacy rejects a question_progress table without a user_id column.
func checkLegacy(ctx context.Context, db *sql.DB) error {
	var tables, userCols int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'question_progress'`,
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return nil
	}
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('question_progress') WHERE name = 'user_id'`,
	).Scan(&userCols)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if userCols == 0 {
		return ErrLegacySchema
	}
	return nil
}

// QuestionID returns the catalogue id of a×b.
func QuestionID(a, b int) int {
	return (a-1)*MaxFactor + b
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
