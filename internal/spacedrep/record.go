package spacedrep

import "github.com/abhisek/mathcraft/internal/store"

// CardFromRecord converts persisted progress into a Card.
func CardFromRecord(r store.ProgressRecord) Card {
	return Card{
		QuestionID:      r.QuestionID,
		EaseFactor:      r.EaseFactor,
		IntervalDays:    r.IntervalDays,
		Repetitions:     r.Repetitions,
		NextReview:      r.NextReview,
		LastReviewed:    r.LastReviewed,
		TotalAttempts:   r.TotalAttempts,
		CorrectCount:    r.CorrectCount,
		WrongCount:      r.WrongCount,
		AvgResponseTime: r.AvgResponseTime,
	}
}

// Record converts the card into its persisted form.
func (c Card) Record() store.ProgressRecord {
	return store.ProgressRecord{
		QuestionID:      c.QuestionID,
		EaseFactor:      c.EaseFactor,
		IntervalDays:    c.IntervalDays,
		Repetitions:     c.Repetitions,
		NextReview:      c.NextReview,
		LastReviewed:    c.LastReviewed,
		TotalAttempts:   c.TotalAttempts,
		CorrectCount:    c.CorrectCount,
		WrongCount:      c.WrongCount,
		AvgResponseTime: c.AvgResponseTime,
	}
}
