package integration

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/stepper"
	steppertest "github.com/zoobzio/stepper/testing"
)

// Holding the button from 10 for 600ms: one immediate step, a repeat at
// 350ms, then every 100ms. Releasing at 600ms and waiting out the save
// delay reports a single change and save.
func TestStepper_HoldReleaseSave(t *testing.T) {
	clock := clockz.NewFakeClock()
	rec := &steppertest.Recorder{}

	opts := append(rec.Options(), stepper.WithClock(clock))
	s, err := stepper.New("font-size", 10, stepper.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	s.PressStart(stepper.Up)
	steppertest.RequireValue(t, s, 11)

	for _, want := range []int{12, 13, 14} {
		if want == 12 {
			clock.Advance(350 * time.Millisecond)
		} else {
			clock.Advance(100 * time.Millisecond)
		}
		clock.BlockUntilReady()
		if !steppertest.WaitFor(t, time.Second, func() bool { return s.Value() == want }) {
			t.Fatalf("expected %d, got %d", want, s.Value())
		}
	}

	clock.Advance(50 * time.Millisecond)
	clock.BlockUntilReady()
	s.PressEnd()

	clock.Advance(800 * time.Millisecond)
	clock.BlockUntilReady()
	if !steppertest.WaitFor(t, time.Second, func() bool { return rec.Count() == 6 }) {
		t.Fatalf("expected 6 events, got %q", rec.Events())
	}
	rec.RequireEvents(t,
		"update 11", "update 12", "update 13", "update 14",
		"change 10->14", "save 14",
	)
	if s.Committed() != 14 {
		t.Errorf("expected committed 14, got %d", s.Committed())
	}
}

// Typing a value then tabbing away commits at once; the debounce window
// opened by the typing never fires a second save.
func TestStepper_TypeAndBlur(t *testing.T) {
	clock := clockz.NewFakeClock()
	rec := &steppertest.Recorder{}

	opts := append(rec.Options(), stepper.WithClock(clock))
	s, err := stepper.New("font-size", 10, stepper.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	s.Input("3")
	s.Input("35")
	s.Blur()

	rec.RequireEvents(t, "update 3", "update 35", "change 10->35", "save 35")

	clock.Advance(2 * time.Second)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)
	if rec.Count() != 4 {
		t.Errorf("expected no late save, got %q", rec.Events())
	}
}
