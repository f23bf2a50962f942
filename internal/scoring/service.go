package scoring

import (
	"context"
	"time"
)

// Service is the remote scoring service a drill session talks to.
// It owns question selection, answer evaluation and the spaced repetition
// schedule; clients only ever see operands, never the product.
type Service interface {
	// StartSession opens a new game session and returns its opaque id.
	StartSession(ctx context.Context) (string, error)

	// EndSession marks the session as ended.
	EndSession(ctx context.Context, sessionID string) error

	// Stats returns the learner's historical totals.
	Stats(ctx context.Context) (Stats, error)

	// GetQuestion returns the next question to ask.
	GetQuestion(ctx context.Context) (Question, error)

	// SubmitAnswer evaluates an answer and returns the verdict.
	SubmitAnswer(ctx context.Context, sub Submission) (Result, error)
}

// SessionInfo describes a started session. ID is empty when the session
// could not be registered remotely and the client runs degraded.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
}

// Question is a multiplication prompt: A × B.
type Question struct {
	ID        string `json:"id"`
	A         int    `json:"num1"`
	B         int    `json:"num2"`
	Operation string `json:"operation,omitempty"`
}

// Stats holds historical cumulative counts for the learner.
type Stats struct {
	Username      string `json:"username,omitempty"`
	TotalCorrect  int    `json:"total_correct"`
	TotalAttempts int    `json:"total_attempts"`
}

// Submission is a single answer sent for evaluation.
type Submission struct {
	QuestionID string `json:"question_id"`
	Answer     int    `json:"answer"`

	// ResponseTime is the time in seconds between the question being shown
	// and the answer being submitted.
	ResponseTime float64 `json:"response_time"`

	// SessionID is empty when the session runs degraded.
	SessionID string `json:"session_id,omitempty"`
}

// Result is the scoring service's verdict on a submission.
type Result struct {
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correct_answer"`

	// NextReviewDays is the spaced repetition interval the service assigned
	// to the question. Only meaningful when Correct is true.
	NextReviewDays int `json:"next_review_days"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

type endSessionRequest struct {
	SessionID string `json:"session_id"`
}

// Dashboard is the learner overview served by /api/dashboard.
type Dashboard struct {
	Username           string           `json:"username,omitempty"`
	QuestionsPracticed int              `json:"total_questions_practiced"`
	TotalAttempts      int              `json:"total_attempts"`
	TotalCorrect       int              `json:"total_correct"`
	TotalWrong         int              `json:"total_wrong"`
	Accuracy           float64          `json:"accuracy"` // percent, one decimal
	TotalTimeMinutes   float64          `json:"total_time_minutes"`
	QuestionsDue       int              `json:"questions_due"`
	RecentSessions     []SessionSummary `json:"recent_sessions"`
}

// SessionSummary is one row of the recent sessions list.
type SessionSummary struct {
	ID                string     `json:"id"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	QuestionsAnswered int        `json:"questions_answered"`
	CorrectAnswers    int        `json:"correct_answers"`
	DurationMinutes   float64    `json:"duration_minutes"`
}

// Mistake is a question the learner has answered incorrectly at least once.
type Mistake struct {
	QuestionID    string    `json:"question_id"`
	A             int       `json:"num1"`
	B             int       `json:"num2"`
	Answer        int       `json:"answer"`
	WrongCount    int       `json:"wrong_count"`
	CorrectCount  int       `json:"correct_count"`
	TotalAttempts int       `json:"total_attempts"`
	NextReviewAt  time.Time `json:"next_review"`
}
