package stepper

import (
	"context"
	"strconv"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Direction selects which step button is pressed.
type Direction int

const (
	// Down decrements by one step.
	Down Direction = -1
	// Up increments by one step.
	Up Direction = 1
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// ChangeEvent describes a committed value transition.
type ChangeEvent struct {
	OldValue int
	NewValue int
}

// Stepper is a headless numeric stepper. It owns the current value and its
// bounds, and turns input events into PressTimer and SaveDebouncer calls:
//
//	press:    PressStart / PressEnd   -> one step now, repeat while held
//	keyboard: Input / Blur            -> draft text, clamp and commit on blur
//	external: SetValue / Reconfigure  -> resync without a change event
//
// Listeners registered with WithOnUpdate, WithOnChange and WithOnSave are
// invoked without the Stepper lock held, so they may call back in.
type Stepper struct {
	name     string
	clock    clockz.Clock
	onUpdate func(int)
	onChange func(ChangeEvent)
	onSave   func(int)

	mu    sync.Mutex
	cfg   Config
	value int
	draft string
	press *PressTimer
	saver *SaveDebouncer

	// pressGen identifies the current press. Repeat steps from an older
	// press are dropped. pressMu orders press timer arming and disarming.
	pressGen uint64
	pressMu  sync.Mutex
}

// New creates a Stepper named name holding value, clamped to cfg's bounds.
func New(name string, value int, cfg Config, opts ...Option) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	s := &Stepper{
		name:     name,
		clock:    o.clock,
		onUpdate: o.onUpdate,
		onChange: o.onChange,
		onSave:   o.onSave,
		cfg:      cfg,
		value:    Clamp(value, cfg.Min, cfg.Max),
	}
	s.draft = strconv.Itoa(s.value)
	s.press, s.saver = s.newTimers(cfg, s.value)
	return s, nil
}

func (s *Stepper) newTimers(cfg Config, committed int) (*PressTimer, *SaveDebouncer) {
	press := NewPressTimer(cfg.Interval(), WithClock(s.clock), WithName(s.name))
	saver := NewSaveDebouncer(cfg.SaveDelay(), s.handleSave, s.handleChange, committed,
		WithClock(s.clock), WithName(s.name))
	return press, saver
}

// Name returns the name attached to this Stepper's signals.
func (s *Stepper) Name() string {
	return s.name
}

// Value returns the current value.
func (s *Stepper) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Draft returns the text currently shown in the input field.
func (s *Stepper) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Config returns the active configuration.
func (s *Stepper) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Committed returns the last value reported through a save.
func (s *Stepper) Committed() int {
	s.mu.Lock()
	saver := s.saver
	s.mu.Unlock()
	return saver.Committed()
}

// Pressing reports the phase of the press timer.
func (s *Stepper) Pressing() PressState {
	s.mu.Lock()
	press := s.press
	s.mu.Unlock()
	return press.State()
}

// CanIncrement reports whether the increment button is enabled.
func (s *Stepper) CanIncrement() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cfg.Disabled && s.value < s.cfg.Max
}

// CanDecrement reports whether the decrement button is enabled.
func (s *Stepper) CanDecrement() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cfg.Disabled && s.value > s.cfg.Min
}

// UnitLabel returns the unit to render next to the value, or "" when the
// unit is hidden or unset.
func (s *Stepper) UnitLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.ShowUnit {
		return ""
	}
	return s.cfg.Unit
}

// Increment steps up once, as a click on the increment button.
func (s *Stepper) Increment() {
	s.step(Up, 0)
}

// Decrement steps down once, as a click on the decrement button.
func (s *Stepper) Decrement() {
	s.step(Down, 0)
}

// PressStart handles a pointer-down on a step button: one step now, then
// repeated steps once the long-press delay elapses. Repeating stops on
// its own at the bound.
func (s *Stepper) PressStart(dir Direction) {
	if !s.step(dir, 0) {
		return
	}

	s.pressMu.Lock()
	defer s.pressMu.Unlock()

	s.mu.Lock()
	s.pressGen++
	gen := s.pressGen
	press := s.press
	delay := s.cfg.LongPressDelay()
	s.mu.Unlock()

	press.Start(func() {
		if !s.step(dir, gen) {
			s.endPress(gen)
		}
	}, delay)
}

// PressEnd handles pointer-up or pointer-leave on a step button. No step
// is applied after it returns.
func (s *Stepper) PressEnd() {
	s.endPress(0)
}

// endPress stops the press timer. A non-zero gen only ends that press, so a
// repeat from an earlier press cannot stop a newer one.
func (s *Stepper) endPress(gen uint64) {
	s.pressMu.Lock()
	defer s.pressMu.Unlock()

	s.mu.Lock()
	if gen != 0 && gen != s.pressGen {
		s.mu.Unlock()
		return
	}
	s.pressGen++
	press := s.press
	s.mu.Unlock()

	press.Stop()
}

// Input replaces the draft text. Text that is not empty-or-digits is
// rejected and the draft is left unchanged. A draft that parses to a value
// within bounds is applied immediately and scheduled for saving;
// anything else waits for Blur to be clamped.
func (s *Stepper) Input(text string) bool {
	if !ValidInput(text) {
		capitan.Emit(context.Background(), InputRejected,
			KeyName.Field(s.name),
			KeyInput.Field(text),
		)
		return false
	}

	s.mu.Lock()
	if s.cfg.Disabled {
		s.mu.Unlock()
		return false
	}
	s.draft = text
	n, err := strconv.Atoi(text)
	if err != nil || n < s.cfg.Min || n > s.cfg.Max || n == s.value {
		s.mu.Unlock()
		return true
	}
	s.value = n
	scheduled := s.saver.arm(n)
	s.mu.Unlock()

	s.emitUpdate(n)
	scheduled()
	return true
}

// Blur handles focus leaving the input field. The draft is parsed and
// clamped, and the value is committed without waiting for the debounce
// window.
func (s *Stepper) Blur() {
	s.mu.Lock()
	if s.cfg.Disabled {
		s.mu.Unlock()
		return
	}
	next := ParseAndClamp(s.draft, s.value, s.cfg.Min, s.cfg.Max)
	changed := next != s.value
	s.value = next
	s.draft = strconv.Itoa(next)
	saver := s.saver
	if changed {
		saver.queueCommit(next)
	} else {
		saver.queuePending()
	}
	s.mu.Unlock()

	if changed {
		s.emitUpdate(next)
	}
	saver.deliver()
}

// SetValue sets the value from outside the widget, such as a programmatic
// reset. Any pending save is discarded and no change or save is reported.
func (s *Stepper) SetValue(value int) {
	s.mu.Lock()
	value = Clamp(value, s.cfg.Min, s.cfg.Max)
	s.value = value
	s.draft = strconv.Itoa(value)
	abandoned := s.saver.discard()
	s.saver.UpdateCommittedValue(value)
	s.mu.Unlock()

	abandoned()

	capitan.Emit(context.Background(), ValueReset,
		KeyName.Field(s.name),
		KeyValue.Field(value),
	)
}

// Reconfigure swaps in cfg. The current value is clamped into the new
// bounds, and a value moved by the clamp is scheduled for saving. Timers
// are rebuilt when the interval or save delay changed; a pending save is
// flushed first.
func (s *Stepper) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.pressMu.Lock()
	s.mu.Lock()
	retime := s.cfg.IntervalMS != cfg.IntervalMS || s.cfg.SaveDelayMS != cfg.SaveDelayMS

	// Steps only touch the debouncer under s.mu, so once the new timers
	// are installed nothing reaches the retired ones.
	var (
		stopPress *PressTimer
		retired   *SaveDebouncer
	)
	if retime || cfg.Disabled {
		s.pressGen++
		stopPress = s.press
	}
	if retime {
		retired = s.saver
		retired.queuePending()
		s.press, s.saver = s.newTimers(cfg, retired.Committed())
	}
	s.cfg = cfg
	next := Clamp(s.value, cfg.Min, cfg.Max)
	clamped := next != s.value
	s.value = next
	s.draft = strconv.Itoa(next)
	scheduled := func() {}
	if clamped {
		scheduled = s.saver.arm(next)
	}
	s.mu.Unlock()

	if stopPress != nil {
		stopPress.Stop()
	}
	s.pressMu.Unlock()

	if retired != nil {
		retired.deliver()
	}
	if clamped {
		s.emitUpdate(next)
		scheduled()
	}
	return nil
}

// Close stops the press timer and flushes any pending save. The Stepper
// must not be used afterwards.
func (s *Stepper) Close() {
	s.pressMu.Lock()
	s.mu.Lock()
	s.pressGen++
	press, saver := s.press, s.saver
	s.mu.Unlock()
	s.pressMu.Unlock()

	press.Cleanup()
	saver.CommitPending()
	saver.Cleanup()
}

// step applies one step in dir. It reports false when nothing moved:
// the Stepper is disabled, already at the bound, or gen is non-zero and no
// longer the current press.
func (s *Stepper) step(dir Direction, gen uint64) bool {
	s.mu.Lock()
	if s.cfg.Disabled || (gen != 0 && gen != s.pressGen) {
		s.mu.Unlock()
		return false
	}
	next := Clamp(s.value+int(dir)*s.cfg.Step, s.cfg.Min, s.cfg.Max)
	if next == s.value {
		s.mu.Unlock()
		return false
	}
	s.value = next
	s.draft = strconv.Itoa(next)
	scheduled := s.saver.arm(next)
	s.mu.Unlock()

	s.emitUpdate(next)
	scheduled()
	return true
}

func (s *Stepper) emitUpdate(value int) {
	if s.onUpdate != nil {
		s.onUpdate(value)
	}
	capitan.Emit(context.Background(), ValueUpdated,
		KeyName.Field(s.name),
		KeyValue.Field(value),
	)
}

func (s *Stepper) handleChange(oldValue, newValue int) {
	if s.onChange != nil {
		s.onChange(ChangeEvent{OldValue: oldValue, NewValue: newValue})
	}
}

func (s *Stepper) handleSave(value int) {
	if s.onSave != nil {
		s.onSave(value)
	}
}
