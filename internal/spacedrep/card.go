package spacedrep

import (
	"math"
	"time"
)

// SM-2 parameters.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// GoodQuality is the SM-2 quality grade given to every correct answer.
	GoodQuality = 4

	// FailPenalty is subtracted from the ease factor on a wrong answer.
	FailPenalty = 0.2

	// FirstIntervalDays and SecondIntervalDays are the fixed intervals after
	// the first and second consecutive correct answers.
	FirstIntervalDays  = 1
	SecondIntervalDays = 6
)

// Card holds the spaced repetition state for a single question.
type Card struct {
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

// NewCard returns a fresh card, due immediately.
func NewCard(questionID int, now time.Time) Card {
	return Card{
		QuestionID: questionID,
		EaseFactor: DefaultEaseFactor,
		NextReview: now,
	}
}

// RecordAnswer applies one graded answer using SM-2 and schedules the next
// review IntervalDays after now. A wrong answer resets the card so it is
// due again immediately.
func (c *Card) RecordAnswer(correct bool, responseTime float64, now time.Time) {
	c.TotalAttempts++
	if c.AvgResponseTime == 0 {
		c.AvgResponseTime = responseTime
	} else {
		c.AvgResponseTime = (c.AvgResponseTime + responseTime) / 2
	}

	if correct {
		c.CorrectCount++
		c.Repetitions++
		switch c.Repetitions {
		case 1:
			c.IntervalDays = FirstIntervalDays
		case 2:
			c.IntervalDays = SecondIntervalDays
		default:
			c.IntervalDays = int(float64(c.IntervalDays) * c.EaseFactor)
		}
		c.EaseFactor = math.Max(MinEaseFactor, c.EaseFactor+easeDelta(GoodQuality))
	} else {
		c.WrongCount++
		c.Repetitions = 0
		c.IntervalDays = 0
		c.EaseFactor = math.Max(MinEaseFactor, c.EaseFactor-FailPenalty)
	}

	c.LastReviewed = now
	c.NextReview = now.AddDate(0, 0, c.IntervalDays)
}

// easeDelta is the SM-2 ease adjustment for quality q (0-5).
func easeDelta(q int) float64 {
	d := float64(5 - q)
	return 0.1 - d*(0.08+d*0.02)
}

// IsDue returns true if the question is due for review (at or past the review date).
func (c *Card) IsDue(now time.Time) bool {
	return !now.Before(c.NextReview)
}

// OverdueDays returns how many days past due the question is. Returns 0 if not yet due.
func (c *Card) OverdueDays(now time.Time) float64 {
	if now.Before(c.NextReview) {
		return 0
	}
	return now.Sub(c.NextReview).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (c *Card) DaysUntilReview(now time.Time) int {
	if c.IsDue(now) {
		return 0
	}
	return int(c.NextReview.Sub(now).Hours()/24.0) + 1
}

// Weakness is the accuracy score the picker sorts by, lowest first.
// The +1 keeps a single lucky answer from ranking as fully learned.
func (c *Card) Weakness() float64 {
	return float64(c.CorrectCount) / float64(c.TotalAttempts+1)
}

// Accuracy returns the fraction of attempts answered correctly.
func (c *Card) Accuracy() float64 {
	if c.TotalAttempts == 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(c.TotalAttempts)
}
