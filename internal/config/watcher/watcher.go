// Package watcher provides file watching for configuration live reload.
//
// The watcher polls one configuration file and invokes reload handlers
// when its modification time or size changes.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/blockconf/internal/config/loader"
)

// DefaultInterval is the default polling interval.
const DefaultInterval = 500 * time.Millisecond

// Handler is called when the watched file changes.
type Handler func()

// Watcher monitors one file for changes.
type Watcher struct {
	mu sync.RWMutex

	fs   loader.FileSystem
	path string

	// Last observed state
	modTime time.Time
	size    int64
	exists  bool

	handlers []Handler
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// New creates a watcher for path on the given file system.
func New(fsys loader.FileSystem, path string, opts ...Option) *Watcher {
	w := &Watcher{
		fs:       fsys,
		path:     path,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnChange registers a handler called when the file changes.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins polling. It records the current file state first so
// only subsequent modifications trigger handlers.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.mu.Unlock()

	w.observe()

	w.wg.Add(1)
	go w.poll()
}

// Stop halts polling. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

// poll is the watch loop.
func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if w.changed() {
				w.notify()
			}
		}
	}
}

// observe records the file's current state without notifying.
func (w *Watcher) observe() {
	info, err := w.fs.Stat(w.path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.exists = false
		w.modTime = time.Time{}
		w.size = 0
		return
	}
	w.exists = true
	w.modTime = info.ModTime()
	w.size = info.Size()
}

// changed compares the file's state against the last observation and
// updates the recorded state.
func (w *Watcher) changed() bool {
	info, err := w.fs.Stat(w.path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		was := w.exists
		w.exists = false
		return was
	}

	if !w.exists || !info.ModTime().Equal(w.modTime) || info.Size() != w.size {
		w.exists = true
		w.modTime = info.ModTime()
		w.size = info.Size()
		return true
	}
	return false
}

// notify invokes all registered handlers.
func (w *Watcher) notify() {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}
