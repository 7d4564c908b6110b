package stepper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultReloadDebounce is the default debounce for config file changes.
const DefaultReloadDebounce = 100 * time.Millisecond

// reloadCore holds the state machine shared by Reloader and LayeredReloader:
// validation, apply, state transitions, error bookkeeping and metrics.
type reloadCore struct {
	apply          func(Config) error
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider

	state     atomic.Int32
	current   atomic.Pointer[Config]
	lastError atomic.Pointer[error]
	history   *errorRing

	mu      sync.Mutex
	started bool
}

func (c *reloadCore) init(apply func(Config) error, o *options) {
	c.apply = apply
	c.debounce = o.debounce
	c.startupTimeout = o.startup
	c.syncMode = o.syncMode
	c.clock = o.clock
	c.codec = o.codec
	c.metrics = o.metrics
	c.history = newErrorRing(o.errorHistory, o.clock)
	c.state.Store(int32(StateLoading))
}

// State returns the current reload state.
func (c *reloadCore) State() ReloadState {
	return ReloadState(c.state.Load())
}

// Current returns the last applied Config and true, or the zero Config and
// false if none has been applied.
func (c *reloadCore) Current() (Config, bool) {
	ptr := c.current.Load()
	if ptr == nil {
		return Config{}, false
	}
	return *ptr, true
}

// LastError returns the last error encountered, or nil after a success.
func (c *reloadCore) LastError() error {
	ptr := c.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent errors, oldest first. It is empty unless
// WithErrorHistory was given.
func (c *reloadCore) ErrorHistory() []ReloadError {
	return c.history.all()
}

func (c *reloadCore) markStarted(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true

	capitan.Emit(ctx, ReloaderStarted,
		KeyDebounce.Field(c.debounce),
	)
	return nil
}

// startupContext bounds the wait for initial values when WithStartupTimeout
// was given.
func (c *reloadCore) startupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.startupTimeout <= 0 {
		return ctx, func() {}
	}
	return c.clock.WithTimeout(ctx, c.startupTimeout)
}

// startupErr reports why the wait for an initial value ended early.
func (c *reloadCore) startupErr(ctx context.Context, what string) error {
	if c.startupTimeout > 0 && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %s within %v", ErrStartupTimeout, what, c.startupTimeout)
	}
	return ctx.Err()
}

func (c *reloadCore) received(ctx context.Context) {
	c.metrics.OnChangeReceived()
	capitan.Emit(ctx, ReloaderChangeReceived)
}

func (c *reloadCore) codecFor(raw []byte) Codec {
	if c.codec != nil {
		return c.codec
	}
	return DetectCodec(raw)
}

// decodeFailed records a decode error and returns it wrapped.
func (c *reloadCore) decodeFailed(ctx context.Context, oldState ReloadState, began time.Time, err error) error {
	c.fail(ctx, oldState, "decode", began, err)
	capitan.Emit(ctx, ReloaderDecodeFailed,
		KeyError.Field(err.Error()),
	)
	return fmt.Errorf("decode failed: %w", err)
}

// commit validates and applies a decoded Config.
func (c *reloadCore) commit(ctx context.Context, oldState ReloadState, began time.Time, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		c.fail(ctx, oldState, "validate", began, err)
		capitan.Emit(ctx, ReloaderValidationFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := c.apply(cfg); err != nil {
		c.fail(ctx, oldState, "apply", began, err)
		capitan.Emit(ctx, ReloaderApplyFailed,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("apply failed: %w", err)
	}

	c.current.Store(&cfg)
	c.lastError.Store(nil)
	c.transition(ctx, oldState, StateHealthy)
	c.metrics.OnReloadSuccess(c.clock.Now().Sub(began))
	capitan.Emit(ctx, ReloaderApplySucceeded)

	return nil
}

// fail records err and moves to the matching failure state.
func (c *reloadCore) fail(ctx context.Context, oldState ReloadState, stage string, began time.Time, err error) {
	e := err
	c.lastError.Store(&e)
	c.history.push(stage, err)
	c.transition(ctx, oldState, c.failureState())
	c.metrics.OnReloadFailure(stage, c.clock.Now().Sub(began))
}

// failureState is Empty until a Config has been applied, then Degraded.
func (c *reloadCore) failureState() ReloadState {
	if c.current.Load() == nil {
		return StateEmpty
	}
	return StateDegraded
}

// transition updates the state and emits a state change event if changed.
func (c *reloadCore) transition(ctx context.Context, oldState, newState ReloadState) {
	if oldState == newState {
		return
	}
	c.state.Store(int32(newState))
	c.metrics.OnStateChange(oldState, newState)
	capitan.Emit(ctx, ReloaderStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}

// debounceLoop hands every value from changes to receive and calls flush
// once values stop arriving for d. A pending flush runs when changes closes.
func debounceLoop[T any](ctx context.Context, clock clockz.Clock, d time.Duration, changes <-chan T, receive func(T), flush func()) {
	var (
		timer      clockz.Timer
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case v, ok := <-changes:
			if !ok {
				if hasPending {
					flush()
				}
				return
			}

			receive(v)
			hasPending = true

			// A fresh timer per change; a fired timer is not re-armed.
			if timer != nil {
				timer.Stop()
			}
			timer = clock.NewTimer(d)

		case <-timerC:
			if hasPending {
				flush()
				hasPending = false
			}
		}
	}
}

// Reloader watches a source for stepper configuration, decodes and
// validates it, and hands each valid Config to an apply callback, usually
// Stepper.Reconfigure. A failed change leaves the previous Config active.
type Reloader struct {
	reloadCore
	watcher Watcher

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewReloader creates a Reloader reading from watcher.
//
// Example:
//
//	s, _ := stepper.New("font-size", 14, stepper.DefaultConfig())
//	r := stepper.NewReloader(stepper.NewFileWatcher("stepper.yaml"), s.Reconfigure)
//	if err := r.Start(ctx); err != nil {
//	    log.Printf("initial stepper config failed: %v", err)
//	}
func NewReloader(watcher Watcher, apply func(Config) error, opts ...Option) *Reloader {
	r := &Reloader{watcher: watcher}
	r.init(apply, newOptions(opts))
	return r
}

// Start begins watching. It blocks until the first configuration is
// processed, then continues watching asynchronously. A failed initial
// configuration is returned, but watching continues.
//
// In sync mode, Start only processes the initial value; call Process for
// each subsequent one.
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.markStarted(ctx); err != nil {
		return err
	}

	changes, err := r.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startCtx, cancel := r.startupContext(ctx)
	defer cancel()

	var initialErr error
	select {
	case <-startCtx.Done():
		return r.startupErr(startCtx, "no initial config")
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial config")
		}
		r.received(ctx)
		initialErr = r.process(ctx, raw)
	}

	if r.syncMode {
		r.changes = changes
		return initialErr
	}

	go r.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next value from the watcher. It only
// works in sync mode and reports false when nothing was available.
func (r *Reloader) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	select {
	case raw, ok := <-r.changes:
		if !ok {
			return false
		}
		r.received(ctx)
		_ = r.process(ctx, raw) //nolint:errcheck // Errors stored via fail
		return true
	default:
		return false
	}
}

// process decodes, validates and applies a single configuration update.
func (r *Reloader) process(ctx context.Context, raw []byte) error {
	began := r.clock.Now()
	oldState := r.State()

	cfg := DefaultConfig()
	if err := r.codecFor(raw).Unmarshal(raw, &cfg); err != nil {
		return r.decodeFailed(ctx, oldState, began, err)
	}
	return r.commit(ctx, oldState, began, cfg)
}

// watch processes changes from the watcher channel with debouncing.
func (r *Reloader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, ReloaderStopped,
			KeyState.Field(r.State().String()),
		)
	}()

	var pending []byte
	debounceLoop(ctx, r.clock, r.debounce, changes,
		func(raw []byte) {
			r.received(ctx)
			pending = raw
		},
		func() {
			_ = r.process(ctx, pending) //nolint:errcheck // Errors stored via fail
		},
	)
}
