package scoring

import "regexp"

// UserHeader names the learner a request acts for.
const UserHeader = "X-Mathcraft-User"

// DefaultUser is the learner used when a request names none.
const DefaultUser = "player"

// MaxUsernameLen bounds learner names.
const MaxUsernameLen = 32

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidUsername reports whether name can be used as a learner profile.
func ValidUsername(name string) bool {
	return len(name) <= MaxUsernameLen && usernamePattern.MatchString(name)
}
