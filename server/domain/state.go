package domain

type SessionState int32

const (
	StateAuthenticating SessionState = iota
	StateAwaitingReady
	StateActive
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAwaitingReady:
		return "awaiting_ready"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether next is a legal successor of s. Closed is
// reachable from every state and is terminal.
func (s SessionState) CanTransition(next SessionState) bool {
	if s == StateClosed {
		return false
	}
	if next == StateClosed {
		return true
	}
	return next == s+1
}
