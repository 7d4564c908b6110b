package stepper

// PressState represents the phase of a PressTimer.
type PressState int32

const (
	// PressIdle indicates no timer is armed.
	PressIdle PressState = iota

	// PressDelaying indicates the long-press delay timer is armed and the
	// callback has not run yet.
	PressDelaying

	// PressRepeating indicates the repeat timer is armed.
	PressRepeating
)

// String returns the string representation of the press state.
func (s PressState) String() string {
	switch s {
	case PressIdle:
		return "idle"
	case PressDelaying:
		return "delaying"
	case PressRepeating:
		return "repeating"
	default:
		return "unknown"
	}
}

// ReloadState represents the current state of a Reloader.
type ReloadState int32

const (
	// StateLoading indicates the Reloader is initializing and has not yet
	// processed any configuration.
	StateLoading ReloadState = iota

	// StateHealthy indicates the Reloader has a valid configuration applied.
	StateHealthy

	// StateDegraded indicates the last configuration change failed decoding,
	// validation or application. The previous valid configuration remains
	// active.
	StateDegraded

	// StateEmpty indicates the initial configuration load failed and no valid
	// configuration has ever been obtained. The Reloader keeps watching.
	StateEmpty
)

// String returns the string representation of the state.
func (s ReloadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
