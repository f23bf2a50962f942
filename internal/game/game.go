// Package game drives one play-through: it feeds answers through a
// session.Session and folds the evaluated results into a progress.Tracker.
package game

import (
	"context"
	"errors"

	"github.com/abhisek/mathcraft/internal/progress"
	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/session"
)

// Outcome is what the presentation layer renders after an evaluated answer.
type Outcome struct {
	Result   scoring.Result
	State    progress.State
	Unlocked []progress.Achievement
}

// Game wires a Session to a Tracker.
type Game struct {
	session *session.Session
	tracker *progress.Tracker
}

// New creates a Game backed by svc.
func New(svc scoring.Service, opts ...session.Option) *Game {
	return &Game{
		session: session.New(svc, opts...),
		tracker: progress.NewTracker(),
	}
}

// Start opens the session, seeds the tracker from historical stats, and
// fetches the first question. Session-start and stats failures are not
// fatal; they are returned joined with any question-fetch error so the
// caller can report them. A failed fetch leaves the session active with no
// question, and Next retries it.
func (g *Game) Start(ctx context.Context) (scoring.Question, error) {
	var warnings error
	if _, err := g.session.Start(ctx); err != nil {
		if !errors.Is(err, session.ErrSessionStartFailed) {
			return scoring.Question{}, err
		}
		warnings = errors.Join(warnings, err)
	}

	stats, err := g.session.LoadInitialStats(ctx)
	if err != nil {
		warnings = errors.Join(warnings, err)
	} else {
		g.tracker.Seed(stats.TotalCorrect, stats.TotalAttempts)
	}

	q, err := g.session.NextQuestion(ctx)
	if err != nil {
		return scoring.Question{}, errors.Join(warnings, err)
	}
	return q, warnings
}

// Submit evaluates raw against the current question. Only answers the
// scoring service actually evaluated reach the tracker.
func (g *Game) Submit(ctx context.Context, raw string) (Outcome, error) {
	res, err := g.session.SubmitAnswer(ctx, raw)
	if err != nil {
		return Outcome{State: g.tracker.Snapshot()}, err
	}
	state, unlocked := g.tracker.RecordAttempt(res)
	return Outcome{Result: res, State: state, Unlocked: unlocked}, nil
}

// Next replaces the current question.
func (g *Game) Next(ctx context.Context) (scoring.Question, error) {
	return g.session.NextQuestion(ctx)
}

// End closes the session on a best-effort basis.
func (g *Game) End(ctx context.Context) {
	g.session.End(ctx)
}

// Snapshot returns the current counters and achievements.
func (g *Game) Snapshot() progress.State {
	return g.tracker.Snapshot()
}

// Current returns the question awaiting an answer, if any.
func (g *Game) Current() (scoring.Question, bool) {
	return g.session.Current()
}

// Session exposes the underlying session for status display.
func (g *Game) Session() *session.Session {
	return g.session
}
