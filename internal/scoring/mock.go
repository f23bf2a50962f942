package scoring

import (
	"context"
	"errors"
	"sync"
)

// MockResult is a canned SubmitAnswer response for the MockService.
type MockResult struct {
	Result Result
	Err    error
}

// MockQuestion is a canned GetQuestion response for the MockService.
type MockQuestion struct {
	Question Question
	Err      error
}

// MockService is a deterministic Service for testing.
// Questions and results are returned in FIFO order; every call is recorded.
type MockService struct {
	mu sync.Mutex

	SessionID string
	StartErr  error
	EndErr    error
	StatsResp Stats
	StatsErr  error

	questions []MockQuestion
	results   []MockResult

	// OnCall, when set, runs at the start of every call with the operation
	// name, outside the mock's lock. Tests use it to hold a call in flight.
	OnCall func(op string)

	Calls       []string
	Submissions []Submission
	Ended       []string
}

var _ Service = (*MockService)(nil)

// NewMockService creates a MockService that hands out sessionID on start.
func NewMockService(sessionID string) *MockService {
	return &MockService{SessionID: sessionID}
}

// AddQuestion queues a GetQuestion response.
func (m *MockService) AddQuestion(q Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, MockQuestion{Question: q})
}

// AddQuestionErr queues a failing GetQuestion response.
func (m *MockService) AddQuestionErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, MockQuestion{Err: err})
}

// AddResult queues a SubmitAnswer response.
func (m *MockService) AddResult(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, MockResult{Result: r})
}

// AddResultErr queues a failing SubmitAnswer response.
func (m *MockService) AddResultErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, MockResult{Err: err})
}

// CallCount returns the number of calls made for op, or all calls when op is empty.
func (m *MockService) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op == "" {
		return len(m.Calls)
	}
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *MockService) enter(op string) {
	if m.OnCall != nil {
		m.OnCall(op)
	}
	m.mu.Lock()
	m.Calls = append(m.Calls, op)
	m.mu.Unlock()
}

func (m *MockService) StartSession(_ context.Context) (string, error) {
	m.enter("start-session")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return "", m.StartErr
	}
	return m.SessionID, nil
}

func (m *MockService) EndSession(_ context.Context, sessionID string) error {
	m.enter("end-session")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ended = append(m.Ended, sessionID)
	return m.EndErr
}

func (m *MockService) Stats(_ context.Context) (Stats, error) {
	m.enter("stats")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsErr != nil {
		return Stats{}, m.StatsErr
	}
	return m.StatsResp, nil
}

// GetQuestion returns the next canned question or ErrUnavailable if the
// queue is empty.
func (m *MockService) GetQuestion(_ context.Context) (Question, error) {
	m.enter("get-question")
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.questions) == 0 {
		return Question{}, &ErrUnavailable{Err: errors.New("no canned question")}
	}
	q := m.questions[0]
	m.questions = m.questions[1:]
	return q.Question, q.Err
}

// SubmitAnswer returns the next canned result or ErrUnavailable if the
// queue is empty.
func (m *MockService) SubmitAnswer(_ context.Context, sub Submission) (Result, error) {
	m.enter("submit-answer")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions = append(m.Submissions, sub)
	if len(m.results) == 0 {
		return Result{}, &ErrUnavailable{Err: errors.New("no canned result")}
	}
	r := m.results[0]
	m.results = m.results[1:]
	return r.Result, r.Err
}
