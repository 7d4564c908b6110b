// Package testing provides test utilities for code built on stepper.
package testing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/stepper"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}

// StateReporter is satisfied by Reloader and LayeredReloader.
type StateReporter interface {
	State() stepper.ReloadState
}

// WaitForState waits until the reloader reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, r StateReporter, expected stepper.ReloadState, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.State() == expected
	})
}

// RequireState fails the test immediately if the reloader is not in the expected state.
func RequireState(t *testing.T, r StateReporter, expected stepper.ReloadState) {
	t.Helper()
	if got := r.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireValue fails the test immediately if the stepper does not hold expected.
func RequireValue(t *testing.T, s *stepper.Stepper, expected int) {
	t.Helper()
	if got := s.Value(); got != expected {
		t.Fatalf("expected value %d, got %d", expected, got)
	}
}

// Recorder captures Stepper listener calls in the order they happen.
// Pass Options() to stepper.New.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Options returns listener options that record into r.
func (r *Recorder) Options() []stepper.Option {
	return []stepper.Option{
		stepper.WithOnUpdate(func(v int) { r.add("update %d", v) }),
		stepper.WithOnChange(func(e stepper.ChangeEvent) { r.add("change %d->%d", e.OldValue, e.NewValue) }),
		stepper.WithOnSave(func(v int) { r.add("save %d", v) }),
	}
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Count returns the number of recorded events.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// RequireEvents fails the test unless the recorded events equal want.
func (r *Recorder) RequireEvents(t *testing.T, want ...string) {
	t.Helper()
	got := r.Events()
	if len(got) != len(want) {
		t.Fatalf("expected events %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %q, got %q", want, got)
		}
	}
}

// NewTestReloader creates a sync-mode reloader fed by the returned channel.
// Send the initial document before calling Start.
func NewTestReloader(t *testing.T, apply func(stepper.Config) error, opts ...stepper.Option) (*stepper.Reloader, chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	opts = append([]stepper.Option{stepper.WithSyncMode()}, opts...)
	r := stepper.NewReloader(stepper.NewSyncChannelWatcher(ch), apply, opts...)
	return r, ch
}
