package stepper

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestLayeredReloader_LaterLayersOverride(t *testing.T) {
	site := make(chan []byte, 1)
	user := make(chan []byte, 1)
	site <- []byte("min: 10\nmax: 60\nunit: px")
	user <- []byte(`{"max": 40}`)

	var applied Config
	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(cfg Config) error {
			applied = cfg
			return nil
		},
		WithSyncMode(),
	)

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if applied.Min != 10 || applied.Max != 40 || applied.Unit != "px" {
		t.Errorf("unexpected merged config: %+v", applied)
	}
	if applied.Step != 1 {
		t.Errorf("expected default step, got %d", applied.Step)
	}
	if l.State() != StateHealthy {
		t.Errorf("expected healthy, got %s", l.State())
	}
	if l.SourceErrors() != nil {
		t.Errorf("expected no source errors, got %v", l.SourceErrors())
	}
}

func TestLayeredReloader_EmptyLayerKeepsLower(t *testing.T) {
	site := make(chan []byte, 1)
	user := make(chan []byte, 1)
	site <- []byte("step: 5")
	user <- []byte("")

	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(_ Config) error { return nil },
		WithSyncMode(),
	)

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cfg, ok := l.Current()
	if !ok || cfg.Step != 5 {
		t.Errorf("expected step 5 from the lower layer, got %+v (ok=%v)", cfg, ok)
	}
}

func TestLayeredReloader_ValidatesMergedResult(t *testing.T) {
	site := make(chan []byte, 1)
	user := make(chan []byte, 1)
	site <- []byte("min: 10\nmax: 20")
	// Valid on its own, but crosses the site layer's minimum.
	user <- []byte("max: 5")

	applied := false
	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(_ Config) error {
			applied = true
			return nil
		},
		WithSyncMode(),
	)

	err := l.Start(context.Background())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if applied {
		t.Error("apply should not run for an invalid merge")
	}
	if l.State() != StateEmpty {
		t.Errorf("expected empty, got %s", l.State())
	}
}

func TestLayeredReloader_SourceErrorsAndRecovery(t *testing.T) {
	ctx := context.Background()
	site := make(chan []byte, 2)
	user := make(chan []byte, 2)
	site <- []byte("max: 50")
	user <- []byte("step: 2")

	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(_ Config) error { return nil },
		WithSyncMode(),
	)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	user <- []byte("step: [broken")
	if !l.Process(ctx) {
		t.Fatal("expected Process to handle the update")
	}

	if l.State() != StateDegraded {
		t.Errorf("expected degraded, got %s", l.State())
	}
	errs := l.SourceErrors()
	if len(errs) != 1 || errs[0].Index != 1 {
		t.Fatalf("expected one error from source 1, got %v", errs)
	}
	if !strings.Contains(l.LastError().Error(), "source 1") {
		t.Errorf("expected last error to name the source, got %v", l.LastError())
	}
	cfg, _ := l.Current()
	if cfg.Step != 2 {
		t.Errorf("expected previous config retained, got step %d", cfg.Step)
	}

	user <- []byte("step: 3")
	l.Process(ctx)

	if l.State() != StateHealthy {
		t.Errorf("expected healthy after recovery, got %s", l.State())
	}
	if l.SourceErrors() != nil {
		t.Errorf("expected source errors cleared, got %v", l.SourceErrors())
	}
	cfg, _ = l.Current()
	if cfg.Max != 50 || cfg.Step != 3 {
		t.Errorf("unexpected recovered config: %+v", cfg)
	}
}

func TestLayeredReloader_ProcessWithoutChanges(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte("max: 50")

	l := NewLayeredReloader([]Watcher{NewSyncChannelWatcher(ch)}, func(_ Config) error { return nil }, WithSyncMode())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if l.Process(context.Background()) {
		t.Error("expected false with nothing pending")
	}
}

func TestLayeredReloader_ProcessNotInSyncMode(t *testing.T) {
	l := NewLayeredReloader(nil, func(_ Config) error { return nil })
	if l.Process(context.Background()) {
		t.Error("expected false outside sync mode")
	}
}

func TestLayeredReloader_NoSources(t *testing.T) {
	l := NewLayeredReloader(nil, func(_ Config) error { return nil })
	if err := l.Start(context.Background()); !errors.Is(err, ErrNoSources) {
		t.Errorf("expected ErrNoSources, got %v", err)
	}
}

func TestLayeredReloader_CannotStartTwice(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte("max: 50")

	l := NewLayeredReloader([]Watcher{NewSyncChannelWatcher(ch)}, func(_ Config) error { return nil }, WithSyncMode())
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := l.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestLayeredReloader_WatcherError(t *testing.T) {
	ch := make(chan []byte, 1)
	l := NewLayeredReloader([]Watcher{NewSyncChannelWatcher(ch), failingWatcher{}}, func(_ Config) error { return nil })

	err := l.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "source 1") {
		t.Errorf("expected error naming source 1, got %v", err)
	}
}

func TestLayeredReloader_SourceClosedBeforeValue(t *testing.T) {
	site := make(chan []byte, 1)
	site <- []byte("max: 50")
	user := make(chan []byte)
	close(user)

	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(_ Config) error { return nil },
		WithSyncMode(),
	)
	if err := l.Start(context.Background()); err == nil {
		t.Error("expected error when a source closes before emitting")
	}
}

func TestLayeredReloader_StartupTimeout(t *testing.T) {
	site := make(chan []byte, 1)
	site <- []byte("max: 50")
	user := make(chan []byte)

	l := NewLayeredReloader(
		[]Watcher{NewSyncChannelWatcher(site), NewSyncChannelWatcher(user)},
		func(_ Config) error { return nil },
		WithSyncMode(),
		WithStartupTimeout(20*time.Millisecond),
	)

	err := l.Start(context.Background())
	if !errors.Is(err, ErrStartupTimeout) {
		t.Fatalf("expected ErrStartupTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "source 1") {
		t.Errorf("expected error naming source 1, got %v", err)
	}
}

func TestReloader_StartupTimeout(t *testing.T) {
	ch := make(chan []byte)
	r := NewReloader(NewSyncChannelWatcher(ch), func(_ Config) error { return nil },
		WithSyncMode(),
		WithStartupTimeout(20*time.Millisecond),
	)

	if err := r.Start(context.Background()); !errors.Is(err, ErrStartupTimeout) {
		t.Errorf("expected ErrStartupTimeout, got %v", err)
	}
}

func TestLayeredReloader_DebouncesAcrossSources(t *testing.T) {
	clock := clockz.NewFakeClock()
	site := make(chan []byte, 10)
	user := make(chan []byte, 10)
	site <- []byte("max: 50")
	user <- []byte("step: 1")

	var applyCount atomic.Int32
	var last atomic.Pointer[Config]

	l := NewLayeredReloader(
		[]Watcher{NewChannelWatcher(site), NewChannelWatcher(user)},
		func(cfg Config) error {
			applyCount.Add(1)
			last.Store(&cfg)
			return nil
		},
		WithDebounce(100*time.Millisecond),
		WithClock(clock),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if applyCount.Load() != 1 {
		t.Fatalf("expected 1 apply after start, got %d", applyCount.Load())
	}

	site <- []byte("max: 80")
	user <- []byte("step: 4")

	time.Sleep(10 * time.Millisecond)
	if applyCount.Load() != 1 {
		t.Errorf("expected still 1 apply while debouncing, got %d", applyCount.Load())
	}

	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	if !waitFor(t, time.Second, func() bool { return applyCount.Load() == 2 }) {
		t.Fatalf("expected 2 applies after debounce, got %d", applyCount.Load())
	}
	cfg := last.Load()
	if cfg.Max != 80 || cfg.Step != 4 {
		t.Errorf("expected both layers updated, got %+v", *cfg)
	}
}
