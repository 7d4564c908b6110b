package stepper

import "github.com/zoobzio/capitan"

// Press signals.
var (
	// PressStarted is emitted when a PressTimer is armed.
	PressStarted = capitan.NewSignal(
		"stepper.press.started",
		"Press timer armed",
	)

	// PressRepeatStarted is emitted when the long-press delay elapses and
	// the repeat ticker takes over.
	PressRepeatStarted = capitan.NewSignal(
		"stepper.press.repeating",
		"Long press detected, repeating",
	)

	// PressStopped is emitted when an armed PressTimer is disarmed.
	PressStopped = capitan.NewSignal(
		"stepper.press.stopped",
		"Press timer disarmed",
	)
)

// Save signals.
var (
	// SaveScheduled is emitted each time a debounced save is (re)armed.
	SaveScheduled = capitan.NewSignal(
		"stepper.save.scheduled",
		"Debounced save scheduled",
	)

	// ValueChanged is emitted when a commit moves the committed value.
	ValueChanged = capitan.NewSignal(
		"stepper.value.changed",
		"Committed value changed",
	)

	// ValueSaved is emitted on every commit.
	ValueSaved = capitan.NewSignal(
		"stepper.value.saved",
		"Value saved",
	)

	// SaveAbandoned is emitted when a pending save is discarded without
	// being committed.
	SaveAbandoned = capitan.NewSignal(
		"stepper.save.abandoned",
		"Pending save discarded",
	)
)

// Input signals.
var (
	// ValueUpdated is emitted for every accepted mutation of a Stepper value.
	ValueUpdated = capitan.NewSignal(
		"stepper.value.updated",
		"Stepper value updated",
	)

	// InputRejected is emitted when keyboard text fails validation.
	InputRejected = capitan.NewSignal(
		"stepper.input.rejected",
		"Non-numeric input rejected",
	)

	// ValueReset is emitted when the value is set from outside the widget.
	ValueReset = capitan.NewSignal(
		"stepper.value.reset",
		"Value reset externally",
	)
)

// Reloader lifecycle signals.
var (
	// ReloaderStarted is emitted when a Reloader begins watching.
	ReloaderStarted = capitan.NewSignal(
		"stepper.reloader.started",
		"Config watching started",
	)

	// ReloaderStopped is emitted when a Reloader stops watching.
	ReloaderStopped = capitan.NewSignal(
		"stepper.reloader.stopped",
		"Config watching stopped",
	)

	// ReloaderStateChanged is emitted when a Reloader transitions between states.
	ReloaderStateChanged = capitan.NewSignal(
		"stepper.reloader.state.changed",
		"Reloader state transition",
	)

	// ReloaderChangeReceived is emitted when raw data is received from the watcher.
	ReloaderChangeReceived = capitan.NewSignal(
		"stepper.reloader.change.received",
		"Raw config received from watcher",
	)

	// ReloaderDecodeFailed is emitted when config bytes cannot be decoded.
	ReloaderDecodeFailed = capitan.NewSignal(
		"stepper.reloader.decode.failed",
		"Config decode failed",
	)

	// ReloaderValidationFailed is emitted when a decoded config is invalid.
	ReloaderValidationFailed = capitan.NewSignal(
		"stepper.reloader.validation.failed",
		"Config validation failed",
	)

	// ReloaderApplyFailed is emitted when the apply callback fails.
	ReloaderApplyFailed = capitan.NewSignal(
		"stepper.reloader.apply.failed",
		"Config apply failed",
	)

	// ReloaderApplySucceeded is emitted when a config is applied.
	ReloaderApplySucceeded = capitan.NewSignal(
		"stepper.reloader.apply.succeeded",
		"Config applied successfully",
	)
)
