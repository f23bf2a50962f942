package spacedrep

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/mathcraft/internal/store"
)

func catalogue() []store.QuestionRecord {
	var qs []store.QuestionRecord
	for a := 1; a <= 3; a++ {
		for b := 1; b <= 3; b++ {
			qs = append(qs, store.QuestionRecord{ID: store.QuestionID(a, b), A: a, B: b, Answer: a * b})
		}
	}
	return qs
}

func testPicker() *Picker {
	return NewPicker(rand.New(rand.NewPCG(1, 2)))
}

func TestPick_NoQuestions(t *testing.T) {
	_, _, err := testPicker().Pick(now, nil, nil)
	if !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestPick_RandomWhenNothingPracticed(t *testing.T) {
	qs := catalogue()
	valid := make(map[int]bool)
	for _, q := range qs {
		valid[q.ID] = true
	}

	p := testPicker()
	for range 20 {
		q, reason, err := p.Pick(now, qs, nil)
		if err != nil {
			t.Fatal(err)
		}
		if reason != ReasonRandom {
			t.Errorf("reason = %s, want random", reason)
		}
		if !valid[q.ID] {
			t.Errorf("picked unknown question %d", q.ID)
		}
	}
}

func TestPick_EarliestDueFirst(t *testing.T) {
	qs := catalogue()
	cards := []Card{
		{QuestionID: 2, NextReview: now.Add(-time.Hour)},
		{QuestionID: 10, NextReview: now.Add(-48 * time.Hour)},
		{QuestionID: 3, NextReview: now.Add(time.Hour)},
	}

	q, reason, err := testPicker().Pick(now, qs, cards)
	if err != nil {
		t.Fatal(err)
	}
	if q.ID != 10 || reason != ReasonDue {
		t.Errorf("picked %d (%s), want 10 (due)", q.ID, reason)
	}
}

func TestPick_FirstUnpracticedWhenNothingDue(t *testing.T) {
	qs := catalogue()
	cards := []Card{
		{QuestionID: 1, NextReview: now.Add(24 * time.Hour)},
		{QuestionID: 2, NextReview: now.Add(24 * time.Hour)},
	}

	q, reason, err := testPicker().Pick(now, qs, cards)
	if err != nil {
		t.Fatal(err)
	}
	if reason != ReasonNew {
		t.Errorf("reason = %s, want new", reason)
	}
	if q.ID != store.QuestionID(1, 3) {
		t.Errorf("picked %d, want first unpracticed %d", q.ID, store.QuestionID(1, 3))
	}
}

func TestPick_WeakestWhenAllPracticed(t *testing.T) {
	qs := catalogue()
	var cards []Card
	for _, q := range qs {
		cards = append(cards, Card{
			QuestionID:    q.ID,
			NextReview:    now.Add(24 * time.Hour),
			TotalAttempts: 4,
			CorrectCount:  4,
		})
	}
	// Two equally weak cards: lowest id wins.
	for i := range cards {
		if cards[i].QuestionID == store.QuestionID(3, 2) || cards[i].QuestionID == store.QuestionID(2, 3) {
			cards[i].CorrectCount = 1
		}
	}

	q, reason, err := testPicker().Pick(now, qs, cards)
	if err != nil {
		t.Fatal(err)
	}
	if reason != ReasonWeak {
		t.Errorf("reason = %s, want weak", reason)
	}
	if q.ID != store.QuestionID(2, 3) {
		t.Errorf("picked %d, want %d", q.ID, store.QuestionID(2, 3))
	}
}

func TestPick_IgnoresCardsForUnknownQuestions(t *testing.T) {
	qs := catalogue()
	cards := []Card{{QuestionID: 999, NextReview: now.Add(-time.Hour)}}

	_, reason, err := testPicker().Pick(now, qs, cards)
	if err != nil {
		t.Fatal(err)
	}
	if reason != ReasonRandom {
		t.Errorf("reason = %s, want random", reason)
	}
}

func TestPick_DoesNotReorderInput(t *testing.T) {
	qs := catalogue()
	cards := []Card{
		{QuestionID: 3, NextReview: now.Add(2 * time.Hour)},
		{QuestionID: 1, NextReview: now.Add(time.Hour)},
	}
	testPicker().Pick(now, qs, cards)
	if cards[0].QuestionID != 3 {
		t.Error("Pick reordered the caller's slice")
	}
}
