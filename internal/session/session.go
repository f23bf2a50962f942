package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/mathcraft/internal/scoring"
)

// Session sequences one play-through against the scoring service: start,
// fetch a question, submit answers, end. At most one remote call is in
// flight at a time; overlapping calls fail with ErrBusy.
//
// A Session never touches learner counters. Callers fold the results of
// SubmitAnswer into a progress.Tracker themselves.
type Session struct {
	svc    scoring.Service
	now    func() time.Time
	logger *log.Logger

	mu            sync.Mutex
	phase         Phase
	info          scoring.SessionInfo
	current       *scoring.Question
	questionStart time.Time
	inFlight      bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for session start and answer timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets where degraded-mode and teardown failures are reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates an uninitialized Session.
func New(svc scoring.Service, opts ...Option) *Session {
	s := &Session{
		svc:    svc,
		now:    time.Now,
		logger: log.New(os.Stderr, "mathcraft: ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a session with the scoring service. If the call fails the
// session still becomes active in degraded mode, where submissions carry
// no session id, and the returned error wraps ErrSessionStartFailed.
func (s *Session) Start(ctx context.Context) (scoring.SessionInfo, error) {
	s.mu.Lock()
	switch s.phase {
	case PhaseUninitialized:
	case PhaseEnded:
		s.mu.Unlock()
		return scoring.SessionInfo{}, ErrEnded
	default:
		s.mu.Unlock()
		return scoring.SessionInfo{}, ErrAlreadyStarted
	}
	s.phase = PhaseStarting
	s.mu.Unlock()

	id, err := s.svc.StartSession(ctx)

	s.mu.Lock()
	if s.phase == PhaseEnded {
		// Ended while starting: close the server-side session we just got.
		s.mu.Unlock()
		if err == nil {
			s.endRemote(ctx, id)
		}
		return scoring.SessionInfo{}, ErrEnded
	}
	s.phase = PhaseActive
	s.info = scoring.SessionInfo{StartedAt: s.now()}
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("warning: could not start session, continuing without one: %v", err)
		return s.Info(), fmt.Errorf("%w: %w", ErrSessionStartFailed, err)
	}
	s.info.ID = id
	info := s.info
	s.mu.Unlock()
	return info, nil
}

// LoadInitialStats fetches the learner's historical totals. On error the
// caller should leave its counters at zero.
func (s *Session) LoadInitialStats(ctx context.Context) (scoring.Stats, error) {
	if err := s.begin(); err != nil {
		return scoring.Stats{}, err
	}
	stats, err := s.svc.Stats(ctx)
	if err := s.finish(); err != nil {
		return scoring.Stats{}, err
	}
	if err != nil {
		return scoring.Stats{}, fmt.Errorf("%w: %w", ErrStatsLoadFailed, err)
	}
	return stats, nil
}

// NextQuestion fetches a new question and makes it current, discarding any
// previous one whether or not it was answered. On failure there is no
// current question. The answer clock starts when the question arrives.
func (s *Session) NextQuestion(ctx context.Context) (scoring.Question, error) {
	if err := s.begin(); err != nil {
		return scoring.Question{}, err
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	q, err := s.svc.GetQuestion(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.phase == PhaseEnded {
		return scoring.Question{}, ErrEnded
	}
	if err != nil {
		return scoring.Question{}, fmt.Errorf("%w: %w", ErrQuestionFetchFailed, err)
	}
	s.current = &q
	s.questionStart = s.now()
	return q, nil
}

// SubmitAnswer validates raw and submits it for the current question.
//
// Invalid input fails with ErrValidationFailed before any other check and
// without a remote call. A transport failure wraps ErrSubmitFailed and
// leaves the question current so the answer can be retried. The returned
// Result is exactly what the scoring service sent.
func (s *Session) SubmitAnswer(ctx context.Context, raw string) (scoring.Result, error) {
	answer, err := ParseAnswer(raw)
	if err != nil {
		return scoring.Result{}, err
	}

	if err := s.begin(); err != nil {
		return scoring.Result{}, err
	}
	s.mu.Lock()
	if s.current == nil {
		s.inFlight = false
		s.mu.Unlock()
		return scoring.Result{}, ErrNoQuestion
	}
	elapsed := max(s.now().Sub(s.questionStart), 0)
	sub := scoring.Submission{
		QuestionID:   s.current.ID,
		Answer:       answer,
		ResponseTime: elapsed.Seconds(),
		SessionID:    s.info.ID,
	}
	s.mu.Unlock()

	res, err := s.svc.SubmitAnswer(ctx, sub)
	if err := s.finish(); err != nil {
		return scoring.Result{}, err
	}
	if err != nil {
		return scoring.Result{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	return res, nil
}

// End closes the session. It does not wait for in-flight calls, and any
// remote failure is logged rather than returned. Calling End more than once
// is a no-op.
func (s *Session) End(ctx context.Context) {
	s.mu.Lock()
	if s.phase == PhaseEnded {
		s.mu.Unlock()
		return
	}
	wasActive := s.phase == PhaseActive
	s.phase = PhaseEnded
	s.current = nil
	id := s.info.ID
	s.mu.Unlock()

	if wasActive && id != "" {
		s.endRemote(ctx, id)
	}
}

func (s *Session) endRemote(ctx context.Context, id string) {
	if err := s.svc.EndSession(ctx, id); err != nil {
		s.logger.Printf("warning: %v", fmt.Errorf("%w: session %s: %w", ErrEndSessionFailed, id, err))
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Info returns the session id and start time. The id is empty before Start
// and in degraded mode.
func (s *Session) Info() scoring.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Degraded reports whether the session is running without a server-side id.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.phase == PhaseActive || s.phase == PhaseEnded) && s.info.ID == "" && !s.info.StartedAt.IsZero()
}

// Current returns the current question, if any.
func (s *Session) Current() (scoring.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return scoring.Question{}, false
	}
	return *s.current, true
}

// begin claims the in-flight slot for a remote call.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseActive:
	case PhaseEnded:
		return ErrEnded
	default:
		return ErrNotActive
	}
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

// finish releases the in-flight slot. It returns ErrEnded if the session
// ended while the call was outstanding, in which case the result is dropped.
func (s *Session) finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.phase == PhaseEnded {
		return ErrEnded
	}
	return nil
}

// ParseAnswer converts typed input to an integer answer. Surrounding
// whitespace is ignored; anything else that is not a base-10 integer fails
// with ErrValidationFailed.
func ParseAnswer(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrValidationFailed
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrValidationFailed, trimmed)
	}
	return n, nil
}
