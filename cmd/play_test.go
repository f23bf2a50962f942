package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathcraft/internal/game"
	"github.com/abhisek/mathcraft/internal/scoring"
)

func newPlayer(mock *scoring.MockService, input string) (*player, *bytes.Buffer) {
	var out bytes.Buffer
	return &player{
		in:   strings.NewReader(input),
		out:  &out,
		game: game.New(mock),
	}, &out
}

func TestPlayer_Round(t *testing.T) {
	mock := scoring.NewMockService("sess-1")
	mock.AddQuestion(scoring.Question{ID: "21", A: 3, B: 4})
	mock.AddQuestion(scoring.Question{ID: "42", A: 5, B: 6})
	mock.AddQuestion(scoring.Question{ID: "11", A: 2, B: 2})
	mock.AddResult(scoring.Result{Correct: true, CorrectAnswer: 12, NextReviewDays: 1})
	mock.AddResult(scoring.Result{Correct: false, CorrectAnswer: 4})

	p, out := newPlayer(mock, "abc\n12\nn\n7\nq\n")
	require.NoError(t, p.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "3 × 4 = ")
	assert.Contains(t, text, "Please enter a whole number.")
	assert.Contains(t, text, "Correct! Next review in 1 day.")
	assert.Contains(t, text, "Achievement unlocked: First Block Mined!")
	assert.Contains(t, text, "5 × 6 = ")
	assert.Contains(t, text, "Not quite. The answer is 4.")
	assert.Equal(t, 2, strings.Count(text, "2 × 2 = "), "incorrect answer keeps the question")
	assert.Contains(t, text, "Final score 1 of 2 answered (50%).")
	assert.Contains(t, text, "Achievements: First Block Mined!")

	require.Len(t, mock.Submissions, 2)
	assert.Equal(t, scoring.Submission{QuestionID: "21", Answer: 12, SessionID: "sess-1"},
		withoutTime(mock.Submissions[0]))
	assert.Equal(t, 7, mock.Submissions[1].Answer)
	assert.Equal(t, []string{"sess-1"}, mock.Ended)
}

func TestPlayer_EOFEndsSession(t *testing.T) {
	mock := scoring.NewMockService("sess-2")
	mock.AddQuestion(scoring.Question{ID: "1", A: 1, B: 1})

	p, out := newPlayer(mock, "")
	require.NoError(t, p.run(context.Background()))
	assert.Contains(t, out.String(), "Final score 0 of 0 answered")
	assert.Equal(t, []string{"sess-2"}, mock.Ended)
}

func TestPlayer_DegradedStartWarns(t *testing.T) {
	mock := scoring.NewMockService("")
	mock.StartErr = &scoring.ErrUnavailable{}
	mock.AddQuestion(scoring.Question{ID: "1", A: 1, B: 1})

	p, out := newPlayer(mock, "q\n")
	require.NoError(t, p.run(context.Background()))
	assert.Contains(t, out.String(), "warning:")
	assert.Empty(t, mock.Ended, "no remote session to end")
}

func TestPlayer_FirstFetchFailureCanBeRetried(t *testing.T) {
	mock := scoring.NewMockService("sess-3")
	mock.AddQuestionErr(&scoring.ErrUnavailable{Err: errors.New("connection refused")})
	mock.AddQuestion(scoring.Question{ID: "56", A: 7, B: 8})
	mock.AddResult(scoring.Result{Correct: true, CorrectAnswer: 56, NextReviewDays: 1})

	p, out := newPlayer(mock, "n\n56\nq\n")
	require.NoError(t, p.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Could not load a question")
	assert.Contains(t, text, "('n' to retry)")
	assert.Contains(t, text, "7 × 8 = ")
	assert.Contains(t, text, "Correct! Next review in 1 day.")
	assert.Contains(t, text, "Final score 1 of 1 answered (100%).")
	assert.Equal(t, []string{"sess-3"}, mock.Ended)
}

func TestPlayer_AnswerBeforeAnyQuestionFetches(t *testing.T) {
	mock := scoring.NewMockService("sess-4")
	mock.AddQuestionErr(&scoring.ErrUnavailable{Err: errors.New("timeout")})
	mock.AddQuestion(scoring.Question{ID: "4", A: 1, B: 4})

	p, out := newPlayer(mock, "4\nq\n")
	require.NoError(t, p.run(context.Background()))

	assert.Contains(t, out.String(), "1 × 4 = ")
	assert.Empty(t, mock.Submissions)
}

func TestPlayer_StartAfterEndFails(t *testing.T) {
	mock := scoring.NewMockService("sess-5")
	mock.AddQuestion(scoring.Question{ID: "1", A: 1, B: 1})

	p, _ := newPlayer(mock, "")
	p.game.End(context.Background())

	err := p.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not start")
}

func withoutTime(s scoring.Submission) scoring.Submission {
	s.ResponseTime = 0
	return s
}
