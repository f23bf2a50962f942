package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, started_at, ended_at, questions_answered, correct_answers`

type sessionRepo struct {
	db *sql.DB
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var (
		s       SessionRecord
		started int64
		ended   sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.UserID, &started, &ended, &s.QuestionsAnswered, &s.CorrectAnswers); err != nil {
		return SessionRecord{}, err
	}
	s.StartedAt = fromMillis(started)
	if ended.Valid {
		t := fromMillis(ended.Int64)
		s.EndedAt = &t
	}
	return s, nil
}

func (r *sessionRepo) Create(ctx context.Context, userID int64, startedAt time.Time) (SessionRecord, error) {
	s := SessionRecord{ID: uuid.NewString(), UserID: userID, StartedAt: fromMillis(toMillis(startedAt))}
	_, err := r.db.ExecContext(ctx, `INSERT INTO game_sessions (id, user_id, started_at) VALUES (?, ?, ?)`,
		s.ID, userID, toMillis(startedAt))
	if err != nil {
		return SessionRecord{}, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) End(ctx context.Context, userID int64, id string, endedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE game_sessions SET ended_at = ? WHERE id = ? AND user_id = ?`, toMillis(endedAt), id, userID)
	if err != nil {
		return false, fmt.Errorf("end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("end session: %w", err)
	}
	return n > 0, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+`
		FROM game_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) Recent(ctx context.Context, userID int64, limit int) ([]SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions
		WHERE user_id = ? ORDER BY started_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionRepo) TotalMinutes(ctx context.Context, userID int64) (float64, error) {
	var ms int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(ended_at - started_at), 0)
		FROM game_sessions WHERE user_id = ? AND ended_at IS NOT NULL`, userID).Scan(&ms)
	if err != nil {
		return 0, fmt.Errorf("sum session time: %w", err)
	}
	return float64(ms) / float64(time.Minute/time.Millisecond), nil
}
