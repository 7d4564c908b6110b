package stepper

import "context"

// Watcher observes a configuration source and emits raw bytes whenever it
// changes. Implementations must emit the current contents first so the
// Reloader can apply an initial Config.
type Watcher interface {
	// Watch begins observing the source. The returned channel is closed when
	// ctx is canceled or the source cannot be read any more.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelWatcher adapts an existing byte channel to Watcher. Useful for
// tests and for embedders that already push config updates.
type ChannelWatcher struct {
	ch   <-chan []byte
	sync bool
}

// NewChannelWatcher forwards values from ch through an internal goroutine
// that stops with the Watch context.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher returns ch itself from Watch, with no goroutine in
// between. Pair it with WithSyncMode for deterministic tests.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, sync: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.sync {
		return w.ch, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-w.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// StaticWatcher emits a fixed document once and then stays silent until
// its context ends. It lets a Reloader apply embedded defaults through the
// same decode and validate path as a file.
type StaticWatcher struct {
	data []byte
}

// NewStaticWatcher returns a StaticWatcher for data.
func NewStaticWatcher(data []byte) *StaticWatcher {
	return &StaticWatcher{data: data}
}

// Watch emits the document, then closes the channel when ctx is done.
func (w *StaticWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte, 1)
	out <- w.data
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}
