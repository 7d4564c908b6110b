package stepper

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// ReloadError is one failed Reloader change.
type ReloadError struct {
	Stage string
	Err   error
	At    time.Time
}

// errorRing keeps the most recent reload errors in a fixed-size buffer.
type errorRing struct {
	clock clockz.Clock

	mu      sync.RWMutex
	entries []ReloadError
	head    int
	count   int
}

// newErrorRing returns nil when size is not positive; a nil ring ignores
// pushes and reports nothing.
func newErrorRing(size int, clock clockz.Clock) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{
		clock:   clock,
		entries: make([]ReloadError, size),
	}
}

func (r *errorRing) push(stage string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = ReloadError{Stage: stage, Err: err, At: r.clock.Now()}
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// all returns the buffered errors, oldest first.
func (r *errorRing) all() []ReloadError {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	size := len(r.entries)
	out := make([]ReloadError, r.count)
	start := (r.head - r.count + size) % size
	for i := range out {
		out[i] = r.entries[(start+i)%size]
	}
	return out
}
