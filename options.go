package stepper

import (
	"time"

	"github.com/zoobzio/clockz"
)

// options holds the settings shared by every constructor in this package.
// Each constructor reads only the fields relevant to it.
type options struct {
	name         string
	clock        clockz.Clock
	debounce     time.Duration
	startup      time.Duration
	syncMode     bool
	codec        Codec
	metrics      MetricsProvider
	errorHistory int

	onUpdate func(int)
	onChange func(ChangeEvent)
	onSave   func(int)
}

// Option configures a PressTimer, SaveDebouncer, Stepper or Reloader.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		clock:    clockz.RealClock,
		debounce: DefaultReloadDebounce,
		metrics:  NoOpMetricsProvider{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithClock sets the clock used for every timer.
// Use this with clockz.FakeClock for deterministic timing tests.
func WithClock(clock clockz.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithName sets the name attached to emitted signals.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithDebounce sets the debounce duration for Reloader change processing.
// Changes arriving within this duration are coalesced into a single update.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithStartupTimeout bounds how long Start waits for initial values.
// Without it Start waits until its context is done.
func WithStartupTimeout(d time.Duration) Option {
	return func(o *options) {
		o.startup = d
	}
}

// WithSyncMode enables synchronous Reloader processing for testing.
// In sync mode, changes are processed only when Process is called.
func WithSyncMode() Option {
	return func(o *options) {
		o.syncMode = true
	}
}

// WithCodec sets the codec used to decode configuration bytes.
// Without this option the format is detected from content.
func WithCodec(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithMetrics sets a metrics provider for Reloader events.
func WithMetrics(m MetricsProvider) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithErrorHistory keeps the last n Reloader errors for inspection.
func WithErrorHistory(n int) Option {
	return func(o *options) {
		o.errorHistory = n
	}
}

// WithOnUpdate registers a listener for every accepted value mutation.
func WithOnUpdate(fn func(value int)) Option {
	return func(o *options) {
		o.onUpdate = fn
	}
}

// WithOnChange registers a listener for committed value transitions.
func WithOnChange(fn func(ChangeEvent)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithOnSave registers a listener for save notifications.
func WithOnSave(fn func(value int)) Option {
	return func(o *options) {
		o.onSave = fn
	}
}
