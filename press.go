package stepper

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultInterval is the default repeat period of a held press.
const DefaultInterval = 100 * time.Millisecond

// DefaultLongPressDelay is the default hold time before repeating starts.
const DefaultLongPressDelay = 350 * time.Millisecond

// PressTimer drives a callback repeatedly while a step button is held.
//
// An optional initial delay separates a short tap from a long press: the
// callback first runs when the delay elapses, then on every tick of a
// repeat ticker until Stop is called.
type PressTimer struct {
	name     string
	interval time.Duration
	clock    clockz.Clock

	mu     sync.Mutex
	seq    uint64
	state  PressState
	delay  clockz.Timer
	ticker clockz.Ticker
	stop   chan struct{}
}

// NewPressTimer creates a PressTimer repeating at interval.
// If interval is not positive, DefaultInterval is used.
func NewPressTimer(interval time.Duration, opts ...Option) *PressTimer {
	o := newOptions(opts)
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PressTimer{
		name:     o.name,
		interval: interval,
		clock:    o.clock,
	}
}

// Interval returns the repeat period.
func (p *PressTimer) Interval() time.Duration {
	return p.interval
}

// State returns the current press phase.
func (p *PressTimer) State() PressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start arms the timer. Any previous schedule is stopped first.
//
// With a positive initialDelay the callback runs once when the delay
// elapses and then every interval. Otherwise only the repeat ticker is
// armed and the first invocation happens one interval from now.
func (p *PressTimer) Start(callback func(), initialDelay time.Duration) {
	p.mu.Lock()
	wasArmed := p.state != PressIdle
	p.disarmLocked()
	seq := p.seq
	stop := make(chan struct{})
	p.stop = stop

	if initialDelay > 0 {
		p.state = PressDelaying
		p.delay = p.clock.NewTimer(initialDelay)
	} else {
		initialDelay = 0
		p.state = PressRepeating
		p.ticker = p.clock.NewTicker(p.interval)
	}
	delay, ticker := p.delay, p.ticker
	p.mu.Unlock()

	if wasArmed {
		capitan.Emit(context.Background(), PressStopped,
			KeyName.Field(p.name),
		)
	}
	capitan.Emit(context.Background(), PressStarted,
		KeyName.Field(p.name),
		KeyDelay.Field(initialDelay),
		KeyInterval.Field(p.interval),
	)

	go p.run(seq, stop, delay, ticker, callback)
}

// Stop disarms whichever of the delay timer and repeat ticker is armed.
// It is safe to call at any time, including from inside the callback.
//
// Neither fires after Stop returns. An invocation whose tick was already
// taken may still be starting, so owners that must not act after a stop
// check their own state in the callback, as Stepper does.
func (p *PressTimer) Stop() {
	p.mu.Lock()
	wasArmed := p.state != PressIdle
	p.disarmLocked()
	p.mu.Unlock()

	if wasArmed {
		capitan.Emit(context.Background(), PressStopped,
			KeyName.Field(p.name),
		)
	}
}

// Cleanup stops the timer. Owners call it on teardown.
func (p *PressTimer) Cleanup() {
	p.Stop()
}

func (p *PressTimer) disarmLocked() {
	p.seq++
	if p.delay != nil {
		p.delay.Stop()
		p.delay = nil
	}
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.state = PressIdle
}

// run invokes callback when the delay fires and on every tick after.
// The ticker is armed before the first callback so the cadence does not
// drift with callback duration.
func (p *PressTimer) run(seq uint64, stop <-chan struct{}, delay clockz.Timer, ticker clockz.Ticker, callback func()) {
	var delayC, tickC <-chan time.Time
	if delay != nil {
		delayC = delay.C()
	}
	if ticker != nil {
		tickC = ticker.C()
	}

	for {
		select {
		case <-stop:
			return

		case <-delayC:
			p.mu.Lock()
			if seq != p.seq {
				p.mu.Unlock()
				return
			}
			p.delay = nil
			p.ticker = p.clock.NewTicker(p.interval)
			p.state = PressRepeating
			tickC = p.ticker.C()
			p.mu.Unlock()
			delayC = nil

			capitan.Emit(context.Background(), PressRepeatStarted,
				KeyName.Field(p.name),
				KeyInterval.Field(p.interval),
			)

		case <-tickC:
			p.mu.Lock()
			current := seq == p.seq
			p.mu.Unlock()
			if !current {
				return
			}
		}

		callback()
	}
}
