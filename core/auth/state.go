package auth

// State is the manager's lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateBootstrapping
	StateAuthenticated
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging_out"
	default:
		return "unknown"
	}
}
