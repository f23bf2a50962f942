package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Ensure(ctx context.Context, username string, now time.Time) (UserRecord, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES (?, ?) ON CONFLICT (username) DO NOTHING`,
		username, toMillis(now))
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return r.Get(ctx, username)
}

func (r *userRepo) Get(ctx context.Context, username string) (UserRecord, error) {
	var (
		u       UserRecord
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}

func (r *userRepo) All(ctx context.Context) ([]UserRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []UserRecord
	for rows.Next() {
		var (
			u       UserRecord
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &created); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = fromMillis(created)
		out = append(out, u)
	}
	return out, rows.Err()
}
