package handler

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// WatcherState is the supervisor's lifecycle state.
type WatcherState int32

const (
	// WatcherRunning means a live dispatcher is accepting events.
	WatcherRunning WatcherState = iota
	// WatcherRestarting is the transient state between a crash and
	// the rebuilt dispatcher going live.
	WatcherRestarting
	// WatcherStopped is terminal, reached only by an intentional Stop.
	WatcherStopped
)

// InitFunc builds a fresh, un-started Dispatcher. The Watcher stores
// it at construction and re-executes it on every restart, so
// dispatcher state is always rebuilt from configuration rather than
// carried over from the crashed instance.
type InitFunc func() *Dispatcher

// Watcher supervises a Dispatcher's actor goroutine. Any exit other
// than an intentional Stop triggers a rebuild with the stored init
// argument; an intentional Stop is terminal. From the caller's
// perspective the pipeline is self-healing; there is never a
// permanently dead dispatcher while the Watcher runs.
type Watcher struct {
	init     InitFunc
	fallback io.Writer

	mu      sync.RWMutex
	current *Dispatcher
	state   WatcherState

	restarts atomic.Uint64
	stopping atomic.Bool
	done     chan struct{}
}

// NewWatcher builds a watcher around init. Crash reasons are reported
// to fallback (os.Stderr when nil) so they are never silently lost.
// Nothing runs until Start.
func NewWatcher(init InitFunc, fallback io.Writer) *Watcher {
	if fallback == nil {
		fallback = os.Stderr
	}
	return &Watcher{
		init:     init,
		fallback: fallback,
		done:     make(chan struct{}),
	}
}

// Start builds the first dispatcher and begins supervising it.
func (w *Watcher) Start() {
	d := w.init()
	w.mu.Lock()
	w.current = d
	w.state = WatcherRunning
	w.mu.Unlock()
	d.Start()
	go w.supervise(d)
}

func (w *Watcher) supervise(d *Dispatcher) {
	defer close(w.done)
	for {
		err := <-d.Exited()
		if err == nil || w.stopping.Load() {
			w.setState(WatcherStopped)
			return
		}
		fmt.Fprintf(w.fallback, "relog: %v, restarting\n", err)
		w.setState(WatcherRestarting)
		w.restarts.Add(1)

		// the crashed incarnation's sinks are discarded with it; close
		// them before the replacement builds fresh ones
		_ = d.CloseSinks()

		d = w.init()
		w.mu.Lock()
		w.current = d
		w.state = WatcherRunning
		w.mu.Unlock()
		d.Start()
	}
}

func (w *Watcher) setState(s WatcherState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// State returns the supervisor state.
func (w *Watcher) State() WatcherState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Alive reports whether the pipeline behind the watcher can still
// accept events, now or after an in-progress restart.
func (w *Watcher) Alive() bool {
	return w.State() != WatcherStopped
}

// Restarts returns how many times the dispatcher has been rebuilt.
func (w *Watcher) Restarts() uint64 {
	return w.restarts.Load()
}

// Dispatcher returns the currently supervised dispatcher. During a
// restart this may briefly be the dead instance; callers retry on
// ErrStopped while Alive reports true.
func (w *Watcher) Dispatcher() *Dispatcher {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Stop shuts the supervised dispatcher down terminally and waits for
// the supervision loop to finish. A crash racing the stop is treated
// as stopped, not restarted.
func (w *Watcher) Stop() {
	w.stopping.Store(true)
	for {
		w.mu.RLock()
		d := w.current
		w.mu.RUnlock()
		if d != nil {
			d.Stop()
		}
		select {
		case <-w.done:
			return
		case <-time.After(10 * time.Millisecond):
			// the dispatcher may have been swapped mid-stop; retry
			// against the current one
		}
	}
}
