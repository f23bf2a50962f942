package scoring

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryService is a decorator that retries transient failures of idempotent
// calls (Stats, GetQuestion) with exponential backoff and jitter.
// StartSession, SubmitAnswer and EndSession are passed through untouched:
// repeating them could create duplicate sessions or count an answer twice.
type RetryService struct {
	inner  Service
	config RetryConfig
}

var _ Service = (*RetryService)(nil)

// WithRetry wraps a Service with retry logic.
func WithRetry(s Service, cfg RetryConfig) Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryService{inner: s, config: cfg}
}

func (r *RetryService) StartSession(ctx context.Context) (string, error) {
	return r.inner.StartSession(ctx)
}

func (r *RetryService) EndSession(ctx context.Context, sessionID string) error {
	return r.inner.EndSession(ctx, sessionID)
}

func (r *RetryService) SubmitAnswer(ctx context.Context, sub Submission) (Result, error) {
	return r.inner.SubmitAnswer(ctx, sub)
}

func (r *RetryService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.retry(ctx, func() error {
		var err error
		stats, err = r.inner.Stats(ctx)
		return err
	})
	return stats, err
}

func (r *RetryService) GetQuestion(ctx context.Context) (Question, error) {
	var q Question
	err := r.retry(ctx, func() error {
		var err error
		q, err = r.inner.GetQuestion(ctx)
		return err
	})
	return q, err
}

func (r *RetryService) retry(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return lastErr
}

// shouldRetry determines if an error is transient.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var incompatible *ErrIncompatibleAPI
	if errors.As(err, &incompatible) {
		return false
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}

	// Network errors and anything unclassified.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryService) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
