package progress

// AchievementID identifies an achievement in the catalogue.
type AchievementID string

const (
	FirstCorrect AchievementID = "first_correct"
	Streak5      AchievementID = "streak_5"
	Streak10     AchievementID = "streak_10"
	Master50     AchievementID = "master_50"
)

// Achievement is an unlockable milestone with a trigger over State.
type Achievement struct {
	ID    AchievementID
	Label string

	unlocked func(State) bool
}

// catalogue is the fixed evaluation and reporting order.
var catalogue = []Achievement{
	{ID: FirstCorrect, Label: "First Block Mined!", unlocked: func(s State) bool { return s.Score >= 1 }},
	{ID: Streak5, Label: "5 Block Streak", unlocked: func(s State) bool { return s.Streak >= 5 }},
	{ID: Streak10, Label: "Diamond Miner (10)", unlocked: func(s State) bool { return s.Streak >= 10 }},
	{ID: Master50, Label: "Master Crafter (50)", unlocked: func(s State) bool { return s.Score >= 50 }},
}

// Catalogue returns all achievements in catalogue order.
func Catalogue() []Achievement {
	out := make([]Achievement, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the achievement with the given ID.
func Lookup(id AchievementID) (Achievement, bool) {
	for _, a := range catalogue {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Satisfied reports whether s meets the achievement's trigger.
func (a Achievement) Satisfied(s State) bool {
	return a.unlocked != nil && a.unlocked(s)
}

// String returns the display label.
func (a Achievement) String() string {
	return a.Label
}
