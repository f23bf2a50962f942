package session

// Phase represents where a Session is in its lifecycle.
type Phase int

const (
	PhaseUninitialized Phase = iota // Constructed, Start not called
	PhaseStarting                   // Start call in flight
	PhaseActive                     // Serving questions
	PhaseEnded                      // Terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseStarting:
		return "starting"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}
