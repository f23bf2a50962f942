package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const progressColumns = `question_id, ease_factor, interval_days, repetitions, next_review,
	last_reviewed, total_attempts, correct_count, wrong_count, avg_response_time`

type progressRepo struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (ProgressRecord, error) {
	var (
		p                    ProgressRecord
		nextReview, reviewed int64
	)
	err := row.Scan(&p.QuestionID, &p.EaseFactor, &p.IntervalDays, &p.Repetitions, &nextReview,
		&reviewed, &p.TotalAttempts, &p.CorrectCount, &p.WrongCount, &p.AvgResponseTime)
	if err != nil {
		return ProgressRecord{}, err
	}
	p.NextReview = fromMillis(nextReview)
	p.LastReviewed = fromMillis(reviewed)
	return p, nil
}

func (r *progressRepo) Get(ctx context.Context, userID int64, questionID int) (*ProgressRecord, error) {
	return getProgress(ctx, r.db, userID, questionID)
}

// getProgress reads one progress row through q, which may be a transaction.
func getProgress(ctx context.Context, q querier, userID int64, questionID int) (*ProgressRecord, error) {
	row := q.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM question_progress
		WHERE user_id = ? AND question_id = ?`, userID, questionID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return &p, nil
}

func (r *progressRepo) All(ctx context.Context, userID int64) ([]ProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+progressColumns+` FROM question_progress
		WHERE user_id = ? ORDER BY question_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *progressRepo) Summary(ctx context.Context, userID int64) (ProgressSummary, error) {
	var s ProgressSummary
	err := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(total_attempts), 0),
			COALESCE(SUM(correct_count), 0),
			COALESCE(SUM(wrong_count), 0)
		FROM question_progress WHERE user_id = ?`, userID,
	).Scan(&s.Practiced, &s.TotalAttempts, &s.TotalCorrect, &s.TotalWrong)
	if err != nil {
		return ProgressSummary{}, fmt.Errorf("query progress summary: %w", err)
	}
	return s, nil
}

func (r *progressRepo) DueCount(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_progress WHERE user_id = ? AND next_review <= ?`, userID, toMillis(now),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}

func (r *progressRepo) Mistakes(ctx context.Context, userID int64) ([]MistakeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT q.id, q.a, q.b, q.answer,
			p.ease_factor, p.interval_days, p.repetitions, p.next_review, p.last_reviewed,
			p.total_attempts, p.correct_count, p.wrong_count, p.avg_response_time
		FROM question_progress p
		JOIN questions q ON q.id = p.question_id
		WHERE p.user_id = ? AND p.wrong_count > 0
		ORDER BY p.wrong_count DESC, q.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query mistakes: %w", err)
	}
	defer rows.Close()

	var out []MistakeRecord
	for rows.Next() {
		var (
			m                    MistakeRecord
			nextReview, reviewed int64
		)
		p := &m.Progress
		if err := rows.Scan(&m.Question.ID, &m.Question.A, &m.Question.B, &m.Question.Answer,
			&p.EaseFactor, &p.IntervalDays, &p.Repetitions, &nextReview, &reviewed,
			&p.TotalAttempts, &p.CorrectCount, &p.WrongCount, &p.AvgResponseTime); err != nil {
			return nil, fmt.Errorf("scan mistake: %w", err)
		}
		p.QuestionID = m.Question.ID
		p.NextReview = fromMillis(nextReview)
		p.LastReviewed = fromMillis(reviewed)
		out = append(out, m)
	}
	return out, rows.Err()
}
