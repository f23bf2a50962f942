package scoring

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusError is returned when the scoring service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string // server-provided "error" field, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("scoring service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("scoring service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrUnavailable indicates the scoring service could not be reached.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring service unavailable: %v", e.Err)
	}
	return "scoring service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates a 2xx response whose body could not be decoded.
type ErrInvalidResponse struct {
	Body json.RawMessage
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid scoring service response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrIncompatibleAPI indicates the server speaks a different major API version.
type ErrIncompatibleAPI struct {
	Server string
	Client string
}

func (e *ErrIncompatibleAPI) Error() string {
	return fmt.Sprintf("incompatible scoring API: server %s, client %s", e.Server, e.Client)
}
