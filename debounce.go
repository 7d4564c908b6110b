package stepper

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultSaveDelay is the default debounce window before a save commits.
const DefaultSaveDelay = 800 * time.Millisecond

// SaveFunc receives the value of every commit.
type SaveFunc func(value int)

// ChangeFunc receives the committed value before and after a commit that
// moved it.
type ChangeFunc func(oldValue, newValue int)

// SaveDebouncer coalesces bursts of value updates into a single deferred
// save and reports the old to new transition once per burst.
//
// Every commit calls the save callback, even when the value did not move.
// When it did move, the change callback runs first.
//
// Notifications are delivered in commit order. A commit made while another
// goroutine is delivering, or from inside a callback, is queued and
// delivered by that goroutine once the earlier commits are out.
type SaveDebouncer struct {
	name     string
	delay    time.Duration
	clock    clockz.Clock
	onSave   SaveFunc
	onChange ChangeFunc

	mu         sync.Mutex
	seq        uint64
	committed  int
	pending    int
	hasPending bool
	timer      clockz.Timer
	stop       chan struct{}

	queue      []commitResult
	delivering bool
}

// commitResult describes the notifications owed for one commit.
type commitResult struct {
	oldValue int
	newValue int
	changed  bool
}

// NewSaveDebouncer creates a SaveDebouncer whose committed baseline is
// initial. If delay is not positive, DefaultSaveDelay is used.
// Either callback may be nil.
func NewSaveDebouncer(delay time.Duration, onSave SaveFunc, onChange ChangeFunc, initial int, opts ...Option) *SaveDebouncer {
	o := newOptions(opts)
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &SaveDebouncer{
		name:      o.name,
		delay:     delay,
		clock:     o.clock,
		onSave:    onSave,
		onChange:  onChange,
		committed: initial,
	}
}

// Delay returns the debounce window.
func (d *SaveDebouncer) Delay() time.Duration {
	return d.delay
}

// Committed returns the last committed value.
func (d *SaveDebouncer) Committed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Pending returns the value waiting to be committed, if any.
func (d *SaveDebouncer) Pending() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// Schedule records value as pending and restarts the debounce window.
// When the window elapses without another Schedule, value is committed.
func (d *SaveDebouncer) Schedule(value int) {
	d.arm(value)()
}

// arm records value as pending and restarts the window. The returned func
// reports the window and starts waiting on it.
func (d *SaveDebouncer) arm(value int) func() {
	d.mu.Lock()
	d.disarmLocked()
	seq := d.seq
	d.pending = value
	d.hasPending = true
	timer := d.clock.NewTimer(d.delay)
	stop := make(chan struct{})
	d.timer = timer
	d.stop = stop
	d.mu.Unlock()

	return func() {
		capitan.Emit(context.Background(), SaveScheduled,
			KeyName.Field(d.name),
			KeyValue.Field(value),
			KeyDelay.Field(d.delay),
		)
		go d.await(seq, timer, stop, value)
	}
}

// UpdateCommittedValue resets the committed baseline without notifying.
// Use it when the value changes from a source other than this debouncer.
func (d *SaveDebouncer) UpdateCommittedValue(value int) {
	d.mu.Lock()
	d.committed = value
	d.mu.Unlock()
}

// CommitNow cancels any pending window and commits value immediately.
func (d *SaveDebouncer) CommitNow(value int) {
	d.queueCommit(value)
	d.deliver()
}

// CommitPending commits the pending value immediately. It does nothing
// when no value is pending.
func (d *SaveDebouncer) CommitPending() {
	d.queuePending()
	d.deliver()
}

// Cleanup cancels the pending window and discards the pending value
// without committing it. It is safe to call at any time.
func (d *SaveDebouncer) Cleanup() {
	d.discard()()
}

// queueCommit commits value and queues its notifications without
// delivering them.
func (d *SaveDebouncer) queueCommit(value int) {
	d.mu.Lock()
	d.commitLocked(value)
	d.mu.Unlock()
}

// queuePending is queueCommit for the pending value, if any.
func (d *SaveDebouncer) queuePending() {
	d.mu.Lock()
	if d.hasPending {
		d.commitLocked(d.pending)
	}
	d.mu.Unlock()
}

// discard drops the pending window. The returned func reports the
// abandoned value.
func (d *SaveDebouncer) discard() func() {
	d.mu.Lock()
	abandoned, had := d.pending, d.hasPending
	d.disarmLocked()
	d.mu.Unlock()

	return func() {
		if had {
			capitan.Emit(context.Background(), SaveAbandoned,
				KeyName.Field(d.name),
				KeyValue.Field(abandoned),
			)
		}
	}
}

// await commits value when timer fires, unless the window was superseded.
func (d *SaveDebouncer) await(seq uint64, timer clockz.Timer, stop <-chan struct{}, value int) {
	select {
	case <-stop:
		return
	case <-timer.C():
	}

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.commitLocked(value)
	d.mu.Unlock()

	d.deliver()
}

// commitLocked clears the window, moves the committed baseline and queues
// the notifications for deliver.
func (d *SaveDebouncer) commitLocked(value int) {
	d.disarmLocked()
	d.queue = append(d.queue, commitResult{
		oldValue: d.committed,
		newValue: value,
		changed:  d.committed != value,
	})
	d.committed = value
}

// deliver drains the commit queue unless another call is already draining
// it. Callbacks run without d.mu held.
func (d *SaveDebouncer) deliver() {
	d.mu.Lock()
	if d.delivering {
		d.mu.Unlock()
		return
	}
	d.delivering = true
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		d.notify(next)
		d.mu.Lock()
	}
	d.queue = nil
	d.delivering = false
	d.mu.Unlock()
}

// disarmLocked stops the timer, releases its waiter and drops the pending
// value. Bumping seq invalidates a waiter that already observed the fire.
func (d *SaveDebouncer) disarmLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
	d.pending = 0
	d.hasPending = false
}

// notify delivers a commit: change first when the value moved, then save.
func (d *SaveDebouncer) notify(r commitResult) {
	ctx := context.Background()
	if r.changed {
		if d.onChange != nil {
			d.onChange(r.oldValue, r.newValue)
		}
		capitan.Emit(ctx, ValueChanged,
			KeyName.Field(d.name),
			KeyOldValue.Field(r.oldValue),
			KeyNewValue.Field(r.newValue),
		)
	}
	if d.onSave != nil {
		d.onSave(r.newValue)
	}
	capitan.Emit(ctx, ValueSaved,
		KeyName.Field(d.name),
		KeyValue.Field(r.newValue),
	)
}
