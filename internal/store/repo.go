package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	UserID int64     // owning learner (0 = all learners)
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// UserRecord is a learner profile. Progress, sessions and answer events are
// all scoped to one learner.
type UserRecord struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// QuestionRecord is one multiplication fact from the catalogue.
type QuestionRecord struct {
	ID     int
	A      int
	B      int
	Answer int
}

// ProgressRecord is the persisted spaced-repetition state of one question.
type ProgressRecord struct {
	QuestionID      int
	EaseFactor      float64
	IntervalDays    int
	Repetitions     int
	NextReview      time.Time
	LastReviewed    time.Time
	TotalAttempts   int
	CorrectCount    int
	WrongCount      int
	AvgResponseTime float64
}

// ProgressSummary aggregates progress across all questions.
type ProgressSummary struct {
	Practiced     int
	TotalAttempts int
	TotalCorrect  int
	TotalWrong    int
}

// MistakeRecord is a question answered incorrectly at least once.
type MistakeRecord struct {
	Question QuestionRecord
	Progress ProgressRecord
}

// SessionRecord is one play-through.
type SessionRecord struct {
	ID                string
	UserID            int64
	StartedAt         time.Time
	EndedAt           *time.Time
	QuestionsAnswered int
	CorrectAnswers    int
}

// AnswerEventData captures a single evaluated answer.
type AnswerEventData struct {
	UserID       int64
	SessionID    string
	QuestionID   int
	Answer       int
	Correct      bool
	ResponseTime float64
	Timestamp    time.Time
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	AnswerEventData
	Sequence int64
}

// UserRepo manages learner profiles.
type UserRepo interface {
	// Ensure returns the learner named username, creating it on first use.
	Ensure(ctx context.Context, username string, now time.Time) (UserRecord, error)

	// Get returns a learner by name, or ErrNotFound.
	Get(ctx context.Context, username string) (UserRecord, error)

	// All returns every learner ordered by name.
	All(ctx context.Context) ([]UserRecord, error)
}

// QuestionRepo reads the fixed question catalogue.
type QuestionRepo interface {
	// Get returns the question with id, or ErrNotFound.
	Get(ctx context.Context, id int) (QuestionRecord, error)

	// All returns every question ordered by id.
	All(ctx context.Context) ([]QuestionRecord, error)
}

// ProgressRepo reads a learner's per-question spaced-repetition state.
type ProgressRepo interface {
	// Get returns the progress for a question, or nil if it was never answered.
	Get(ctx context.Context, userID int64, questionID int) (*ProgressRecord, error)

	// All returns progress for every answered question, ordered by question id.
	All(ctx context.Context, userID int64) ([]ProgressRecord, error)

	// Summary aggregates attempt counts across all questions.
	Summary(ctx context.Context, userID int64) (ProgressSummary, error)

	// DueCount returns how many questions are due for review at now.
	DueCount(ctx context.Context, userID int64, now time.Time) (int, error)

	// Mistakes returns questions with at least one wrong answer, most-missed first.
	Mistakes(ctx context.Context, userID int64) ([]MistakeRecord, error)
}

// SessionRepo manages play-through records.
type SessionRepo interface {
	// Create starts a new session for a learner and returns it.
	Create(ctx context.Context, userID int64, startedAt time.Time) (SessionRecord, error)

	// End sets the end time of a session owned by userID. It returns false
	// if no such session exists.
	End(ctx context.Context, userID int64, id string, endedAt time.Time) (bool, error)

	// Get returns a session, or ErrNotFound.
	Get(ctx context.Context, id string) (SessionRecord, error)

	// Recent returns a learner's most recently started sessions, newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]SessionRecord, error)

	// TotalMinutes sums the duration of a learner's ended sessions.
	TotalMinutes(ctx context.Context, userID int64) (float64, error)
}

// ProgressUpdate computes a question's new progress from its previous
// state, which is nil if the learner never answered it.
type ProgressUpdate func(prev *ProgressRecord) ProgressRecord

// EventRepo records evaluated answers.
type EventRepo interface {
	// SaveAnswer runs one transaction that reads the learner's progress for
	// the question, stores the result of update, bumps the counters of the
	// learner's session when it exists, and appends an answer event. It
	// returns the stored progress and the event's sequence number.
	SaveAnswer(ctx context.Context, data AnswerEventData, update ProgressUpdate) (ProgressRecord, int64, error)

	// QueryAnswerEvents returns answer events newest first.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)
}
