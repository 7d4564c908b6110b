package stepper

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// waitFor polls a condition until it returns true or timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return condition()
}

// settle gives timer goroutines a chance to run before asserting that
// nothing happened.
func settle() {
	time.Sleep(20 * time.Millisecond)
}

// recorder captures callback invocations in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) save(v int) {
	r.add("save %d", v)
}

func (r *recorder) change(oldValue, newValue int) {
	r.add("change %d->%d", oldValue, newValue)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func expectEvents(t *testing.T, r *recorder, want ...string) {
	t.Helper()
	got := r.list()
	if len(got) != len(want) {
		t.Fatalf("expected events %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %q, got %q", want, got)
		}
	}
}
