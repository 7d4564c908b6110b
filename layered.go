package stepper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// SourceError is a decode error from one LayeredReloader source.
type SourceError struct {
	Index int
	Err   error
}

// LayeredReloader merges stepper configuration from several sources, for
// example site defaults followed by per-user overrides. Each layer is
// decoded in order onto DefaultConfig, so a later layer replaces only the
// keys it sets. The merged Config is validated once and then applied.
type LayeredReloader struct {
	reloadCore
	sources      []Watcher
	sourceErrors atomic.Pointer[[]SourceError]

	// Written by Start, then only by the watch goroutine or Process.
	sourceChans []<-chan []byte
	latest      [][]byte
}

// sourceUpdate carries one source's bytes into the debounce loop.
type sourceUpdate struct {
	index int
	raw   []byte
}

// NewLayeredReloader creates a LayeredReloader over sources, lowest
// precedence first.
//
// Example:
//
//	r := stepper.NewLayeredReloader([]stepper.Watcher{
//	    stepper.NewFileWatcher("/etc/app/stepper.yaml"),
//	    stepper.NewFileWatcher(userPath),
//	}, s.Reconfigure)
func NewLayeredReloader(sources []Watcher, apply func(Config) error, opts ...Option) *LayeredReloader {
	l := &LayeredReloader{
		sources: sources,
		latest:  make([][]byte, len(sources)),
	}
	l.init(apply, newOptions(opts))
	return l
}

// SourceErrors returns the per-source decode errors of the last update, or
// nil if every layer decoded.
func (l *LayeredReloader) SourceErrors() []SourceError {
	ptr := l.sourceErrors.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Start begins watching every source. It blocks until each source has
// emitted once, merges and applies the layers, then keeps watching
// asynchronously. A failed initial merge is returned, but watching
// continues.
func (l *LayeredReloader) Start(ctx context.Context) error {
	if err := l.markStarted(ctx); err != nil {
		return err
	}

	if len(l.sources) == 0 {
		return ErrNoSources
	}

	l.sourceChans = make([]<-chan []byte, len(l.sources))
	for i, src := range l.sources {
		ch, err := src.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to start source %d: %w", i, err)
		}
		l.sourceChans[i] = ch
	}

	startCtx, cancel := l.startupContext(ctx)
	defer cancel()

	for i, ch := range l.sourceChans {
		select {
		case <-startCtx.Done():
			return l.startupErr(startCtx, fmt.Sprintf("source %d did not emit", i))
		case raw, ok := <-ch:
			if !ok {
				return fmt.Errorf("source %d closed before emitting initial config", i)
			}
			l.latest[i] = raw
		}
	}

	l.received(ctx)
	initialErr := l.process(ctx)

	if l.syncMode {
		return initialErr
	}

	go l.watch(ctx)

	return initialErr
}

// Process drains one pending value from each source and, if any arrived,
// merges and applies. It only works in sync mode.
func (l *LayeredReloader) Process(ctx context.Context) bool {
	if !l.syncMode {
		return false
	}

	changed := false
	for i, ch := range l.sourceChans {
		select {
		case raw, ok := <-ch:
			if !ok {
				continue
			}
			l.latest[i] = raw
			changed = true
		default:
		}
	}

	if !changed {
		return false
	}
	l.received(ctx)
	_ = l.process(ctx) //nolint:errcheck // Errors stored via fail
	return true
}

// process decodes every layer onto the defaults, then validates and applies.
func (l *LayeredReloader) process(ctx context.Context) error {
	began := l.clock.Now()
	oldState := l.State()

	cfg := DefaultConfig()
	for i, raw := range l.latest {
		if err := l.codecFor(raw).Unmarshal(raw, &cfg); err != nil {
			l.sourceErrors.Store(&[]SourceError{{Index: i, Err: err}})
			return l.decodeFailed(ctx, oldState, began, fmt.Errorf("source %d: %w", i, err))
		}
	}
	l.sourceErrors.Store(nil)

	return l.commit(ctx, oldState, began, cfg)
}

// watch fans every source into one debounced stream.
func (l *LayeredReloader) watch(ctx context.Context) {
	defer func() {
		capitan.Emit(ctx, ReloaderStopped,
			KeyState.Field(l.State().String()),
		)
	}()

	merged := make(chan sourceUpdate)
	var wg sync.WaitGroup
	for i, ch := range l.sourceChans {
		wg.Add(1)
		go func(index int, ch <-chan []byte) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-ch:
					if !ok {
						return
					}
					select {
					case merged <- sourceUpdate{index: index, raw: raw}:
					case <-ctx.Done():
						return
					}
				}
			}
		}(i, ch)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	debounceLoop(ctx, l.clock, l.debounce, merged,
		func(u sourceUpdate) {
			l.received(ctx)
			l.latest[u.index] = u.raw
		},
		func() {
			_ = l.process(ctx) //nolint:errcheck // Errors stored via fail
		},
	)
}
