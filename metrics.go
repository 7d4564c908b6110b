package stepper

import "time"

// MetricsProvider receives Reloader events for metrics systems such as
// Prometheus or StatsD.
type MetricsProvider interface {
	// OnStateChange is called when the Reloader transitions between states.
	OnStateChange(from, to ReloadState)

	// OnReloadSuccess is called when a Config is applied. Duration covers
	// decode, validation and apply.
	OnReloadSuccess(duration time.Duration)

	// OnReloadFailure is called when processing fails. Stage is "decode",
	// "validate" or "apply".
	OnReloadFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when raw data arrives from the watcher.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ ReloadState)            {}
func (NoOpMetricsProvider) OnReloadSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnReloadFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                         {}
