/*
Package stepper provides the timing and value logic behind a numeric
stepper input: a field flanked by decrement and increment buttons.

stepper is headless. It owns the value, its bounds and the timers, and
reports what happened through listeners and capitan signals; rendering is
left to the embedder.

# Components

PressTimer drives press-and-hold. Start runs a callback after an optional
one-shot delay and then on a fixed interval until Stop:

	p := stepper.NewPressTimer(100 * time.Millisecond)
	p.Start(step, 350*time.Millisecond)
	defer p.Stop()

SaveDebouncer coalesces rapid edits into one save. Every Schedule restarts
the window; when it closes, the change listener fires (if the value
differs from the last commit) followed by the save listener:

	d := stepper.NewSaveDebouncer(800*time.Millisecond, save, change, 14)
	d.Schedule(15)
	d.Schedule(16) // one save of 16, 800ms after this call

Converter maps a display range onto an internal range linearly, rounding
half up. TextSize maps display 1..100 onto internal 23..1000.

# Stepper

Stepper combines the three with the input helpers:

	s, err := stepper.New("font-size", 14, stepper.DefaultConfig(),
	    stepper.WithOnChange(func(e stepper.ChangeEvent) { ... }),
	    stepper.WithOnSave(func(v int) { ... }),
	)
	s.PressStart(stepper.Up) // pointer down
	s.PressEnd()             // pointer up or leave
	s.Input("42")            // typing
	s.Blur()                 // commit now

# Live configuration

Config holds bounds, step and timing. Reloader watches a source, decodes
YAML or JSON, validates with struct tags and applies the result, usually
through Stepper.Reconfigure:

	r := stepper.NewReloader(stepper.NewFileWatcher("stepper.yaml"), s.Reconfigure)
	if err := r.Start(ctx); err != nil {
	    log.Printf("stepper config: %v", err)
	}

A rejected update leaves the previous Config in place and moves the
Reloader to StateDegraded.

LayeredReloader does the same over several sources, decoding each layer
onto the one before so that per-user files override site defaults key by
key.

# Observability

Every press, save, input and reload transition emits a capitan signal with
typed fields. Attach hooks to log them:

	capitan.Hook(stepper.ValueSaved, func(ctx context.Context, e *capitan.Event) {
	    name, _ := stepper.KeyName.From(e)
	    value, _ := stepper.KeyValue.From(e)
	    log.Printf("%s saved %d", name, value)
	})

# Testing

Pass WithClock(clockz.NewFakeClock()) to drive every timer deterministically,
and WithSyncMode to process Reloader updates one at a time with Process.
The testing subpackage has helpers for both.
*/
package stepper
