package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) Get(ctx context.Context, id int) (QuestionRecord, error) {
	var q QuestionRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, a, b, answer FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.A, &q.B, &q.Answer)
	if errors.Is(err, sql.ErrNoRows) {
		return QuestionRecord{}, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("query question: %w", err)
	}
	return q, nil
}

func (r *questionRepo) All(ctx context.Context) ([]QuestionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, a, b, answer FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRecord
	for rows.Next() {
		var q QuestionRecord
		if err := rows.Scan(&q.ID, &q.A, &q.B, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
