package stepper

import "errors"

var (
	// ErrInvalidRange is returned when a conversion range has no width
	// or a non-finite bound.
	ErrInvalidRange = errors.New("invalid conversion range")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid stepper config")

	// ErrAlreadyStarted is returned by Reloader.Start on a second call.
	ErrAlreadyStarted = errors.New("reloader already started")

	// ErrStartupTimeout is returned by Start when initial values do not
	// arrive within the WithStartupTimeout duration.
	ErrStartupTimeout = errors.New("startup timeout")

	// ErrNoSources is returned by LayeredReloader.Start without sources.
	ErrNoSources = errors.New("no config sources")
)
