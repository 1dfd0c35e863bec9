package match

// State is the lifecycle position of a pass.
type State int

const (
	// StateIdle means no pass has run for the current query.
	StateIdle State = iota
	// StateRunning means a pass is walking the tree.
	StateRunning
	// StateCompleted means the pass visited every node.
	StateCompleted
	// StateCanceled means the pass stopped because it was superseded.
	StateCanceled
	// StateLimitReached means the pass stopped at the result limit.
	StateLimitReached
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	case StateLimitReached:
		return "limit_reached"
	default:
		return "unknown"
	}
}

// Done reports whether s is a terminal state.
func (s State) Done() bool {
	return s >= StateCompleted
}
