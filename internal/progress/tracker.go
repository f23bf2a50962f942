package progress

import (
	"sync"

	"github.com/abhisek/mathcraft/internal/scoring"
)

// Set is a set of unlocked achievements.
type Set map[AchievementID]bool

// State is the learner's running counters.
type State struct {
	Score         int
	Streak        int
	TotalAnswered int
	Achievements  Set
}

// Has reports whether the achievement is unlocked.
func (s State) Has(id AchievementID) bool {
	return s.Achievements[id]
}

// Unlocked returns the unlocked achievements in catalogue order.
func (s State) Unlocked() []Achievement {
	var out []Achievement
	for _, a := range catalogue {
		if s.Achievements[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// Accuracy returns Score/TotalAnswered as a percentage, or 0 before any answer.
func (s State) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalAnswered) * 100
}

func (s State) clone() State {
	out := s
	out.Achievements = make(Set, len(s.Achievements))
	for id, ok := range s.Achievements {
		out.Achievements[id] = ok
	}
	return out
}

// Tracker owns a State and is its only mutator.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// NewTracker creates a Tracker with zeroed counters.
func NewTracker() *Tracker {
	return &Tracker{state: State{Achievements: make(Set)}}
}

// Seed loads historical totals before the first question. Negative values
// are treated as zero and the score never exceeds the attempt count.
// Achievements are not evaluated; they are reported on the next attempt.
func (t *Tracker) Seed(totalCorrect, totalAttempts int) {
	totalCorrect = max(totalCorrect, 0)
	totalAttempts = max(totalAttempts, 0)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Score = min(totalCorrect, totalAttempts)
	t.state.TotalAnswered = totalAttempts
}

// RecordAttempt folds one evaluated answer into the state and returns the
// new state along with achievements unlocked by it, in catalogue order.
// It must only be called for answers the scoring service actually evaluated.
func (t *Tracker) RecordAttempt(r scoring.Result) (State, []Achievement) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.TotalAnswered++
	if r.Correct {
		t.state.Score++
		t.state.Streak++
	} else {
		t.state.Streak = 0
	}

	var unlocked []Achievement
	for _, a := range catalogue {
		if t.state.Achievements[a.ID] || !a.Satisfied(t.state) {
			continue
		}
		t.state.Achievements[a.ID] = true
		unlocked = append(unlocked, a)
	}

	return t.state.clone(), unlocked
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.clone()
}
