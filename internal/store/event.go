package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sequenceCounter manages the global monotonic sequence number assigned to
// every event. Sequences survive Reset so event order stays unambiguous
// across history wipes.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter. Pass the transaction the event is written in, if any.
func (sc *sequenceCounter) Next(ctx context.Context, q querier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) SaveAnswer(ctx context.Context, data AnswerEventData, update ProgressUpdate) (ProgressRecord, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ProgressRecord{}, 0, fmt.Errorf("begin save answer: %w", err)
	}
	defer tx.Rollback()

	prev, err := getProgress(ctx, tx, data.UserID, data.QuestionID)
	if err != nil {
		return ProgressRecord{}, 0, err
	}
	p := update(prev)
	p.QuestionID = data.QuestionID

	_, err = tx.ExecContext(ctx, `INSERT INTO question_progress (user_id, `+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			repetitions = excluded.repetitions,
			next_review = excluded.next_review,
			last_reviewed = excluded.last_reviewed,
			total_attempts = excluded.total_attempts,
			correct_count = excluded.correct_count,
			wrong_count = excluded.wrong_count,
			avg_response_time = excluded.avg_response_time`,
		data.UserID, p.QuestionID, p.EaseFactor, p.IntervalDays, p.Repetitions, toMillis(p.NextReview),
		toMillis(p.LastReviewed), p.TotalAttempts, p.CorrectCount, p.WrongCount, p.AvgResponseTime)
	if err != nil {
		return ProgressRecord{}, 0, fmt.Errorf("save progress: %w", err)
	}

	if data.SessionID != "" {
		correct := 0
		if data.Correct {
			correct = 1
		}
		_, err = tx.ExecContext(ctx, `UPDATE game_sessions
			SET questions_answered = questions_answered + 1, correct_answers = correct_answers + ?
			WHERE id = ? AND user_id = ?`, correct, data.SessionID, data.UserID)
		if err != nil {
			return ProgressRecord{}, 0, fmt.Errorf("update session counters: %w", err)
		}
	}

	seqNum, err := r.seq.Next(ctx, tx)
	if err != nil {
		return ProgressRecord{}, 0, err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO answer_events
		(sequence, user_id, session_id, question_id, answer, correct, response_time, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.UserID, data.SessionID, data.QuestionID, data.Answer, data.Correct, data.ResponseTime,
		toMillis(data.Timestamp))
	if err != nil {
		return ProgressRecord{}, 0, fmt.Errorf("save answer event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ProgressRecord{}, 0, fmt.Errorf("commit answer: %w", err)
	}
	return p, seqNum, nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.UserID > 0 {
		where = append(where, "user_id = ?")
		args = append(args, opts.UserID)
	}
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, toMillis(opts.From))
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, toMillis(opts.To))
	}

	query := `SELECT sequence, user_id, session_id, question_id, answer, correct, response_time, timestamp FROM answer_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var (
			e  AnswerEventRecord
			ts int64
		)
		if err := rows.Scan(&e.Sequence, &e.UserID, &e.SessionID, &e.QuestionID, &e.Answer, &e.Correct, &e.ResponseTime, &ts); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
