package checkout

type State string

const (
	StateIdle                  State = "Idle"
	StateValidatingCart        State = "ValidatingCart"
	StateRequestingIntent      State = "RequestingIntent"
	StateInitializingProcessor State = "InitializingProcessor"
	StatePresentingProcessor   State = "PresentingProcessor"
	StatePersistingOrder       State = "PersistingOrder"
	StateSucceeded             State = "Succeeded"
	StateFailed                State = "Failed"
)

var forward = map[State]State{
	StateIdle:                  StateValidatingCart,
	StateValidatingCart:        StateRequestingIntent,
	StateRequestingIntent:      StateInitializingProcessor,
	StateInitializingProcessor: StatePresentingProcessor,
	StatePresentingProcessor:   StatePersistingOrder,
	StatePersistingOrder:       StateSucceeded,
}

func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) String() string {
	return string(s)
}

// CanTransitionTo reports whether the pipeline may move from s to next. Steps
// only move forward, any working state may fail, and terminal states return to Idle.
func (s State) CanTransitionTo(next State) bool {
	switch {
	case s.IsTerminal():
		return next == StateIdle
	case next == StateFailed:
		return s != StateIdle
	}
	return forward[s] == next
}
