package session

import "errors"

// Remote-call failures. Each wraps the underlying transport error.
var (
	ErrSessionStartFailed  = errors.New("session start failed")
	ErrStatsLoadFailed     = errors.New("stats load failed")
	ErrQuestionFetchFailed = errors.New("question fetch failed")
	ErrSubmitFailed        = errors.New("submit failed")
	ErrEndSessionFailed    = errors.New("end session failed")
)

// ErrValidationFailed is returned for empty or non-integer answers. No
// remote call is made.
var ErrValidationFailed = errors.New("answer must be a whole number")

// Precondition failures.
var (
	ErrNoQuestion     = errors.New("no current question")
	ErrBusy           = errors.New("another request is in flight")
	ErrNotActive      = errors.New("session is not active")
	ErrEnded          = errors.New("session has ended")
	ErrAlreadyStarted = errors.New("session already started")
)
