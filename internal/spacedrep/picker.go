package spacedrep

import (
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/abhisek/mathcraft/internal/store"
)

// ErrNoQuestions is returned when there is nothing to pick from.
var ErrNoQuestions = errors.New("no questions available")

// Reason describes why a question was picked.
type Reason string

const (
	ReasonDue    Reason = "due"
	ReasonNew    Reason = "new"
	ReasonWeak   Reason = "weak"
	ReasonRandom Reason = "random"
)

// Picker chooses the next question to serve.
type Picker struct {
	rng *rand.Rand
}

// NewPicker creates a Picker. A nil rng uses a randomly seeded source.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{rng: rng}
}

// Pick selects a question in priority order:
//  1. the card with the earliest review date that is due,
//  2. a random question when nothing has been answered yet,
//  3. the first never-answered question by id,
//  4. the weakest card (lowest Weakness, ties by question id).
//
// cards holds progress for answered questions only.
func (p *Picker) Pick(now time.Time, questions []store.QuestionRecord, cards []Card) (store.QuestionRecord, Reason, error) {
	if len(questions) == 0 {
		return store.QuestionRecord{}, "", ErrNoQuestions
	}

	byID := make(map[int]store.QuestionRecord, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	sorted := make([]Card, 0, len(cards))
	for _, c := range cards {
		if _, ok := byID[c.QuestionID]; ok {
			sorted = append(sorted, c)
		}
	}

	// Earliest due first.
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].NextReview.Equal(sorted[j].NextReview) {
			return sorted[i].NextReview.Before(sorted[j].NextReview)
		}
		return sorted[i].QuestionID < sorted[j].QuestionID
	})
	if len(sorted) > 0 && sorted[0].IsDue(now) {
		return byID[sorted[0].QuestionID], ReasonDue, nil
	}

	if len(sorted) == 0 {
		return questions[p.rng.IntN(len(questions))], ReasonRandom, nil
	}

	practiced := make(map[int]bool, len(sorted))
	for _, c := range sorted {
		practiced[c.QuestionID] = true
	}
	unpracticed := make([]store.QuestionRecord, 0, len(questions))
	for _, q := range questions {
		if !practiced[q.ID] {
			unpracticed = append(unpracticed, q)
		}
	}
	if len(unpracticed) > 0 {
		sort.Slice(unpracticed, func(i, j int) bool { return unpracticed[i].ID < unpracticed[j].ID })
		return unpracticed[0], ReasonNew, nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		wi, wj := sorted[i].Weakness(), sorted[j].Weakness()
		if wi != wj {
			return wi < wj
		}
		return sorted[i].QuestionID < sorted[j].QuestionID
	})
	return byID[sorted[0].QuestionID], ReasonWeak, nil
}
