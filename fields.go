package stepper

import "github.com/zoobzio/capitan"

// Field keys for stepper events.
var (
	// KeyName identifies the Stepper that produced an event.
	KeyName = capitan.NewStringKey("name")

	// KeyValue is the value carried by save and update events.
	KeyValue = capitan.NewIntKey("value")

	// KeyOldValue is the committed value before a change.
	KeyOldValue = capitan.NewIntKey("old_value")

	// KeyNewValue is the committed value after a change.
	KeyNewValue = capitan.NewIntKey("new_value")

	// KeyInput is raw text rejected by input validation.
	KeyInput = capitan.NewStringKey("input")

	// KeyDelay is the long-press delay or save delay in effect.
	KeyDelay = capitan.NewDurationKey("delay")

	// KeyInterval is the repeat interval of a press.
	KeyInterval = capitan.NewDurationKey("interval")
)

// Field keys for Reloader events.
var (
	// KeyState is the current state of the Reloader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
