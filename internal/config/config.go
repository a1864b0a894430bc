package config

import (
	"sync"
	"time"

	"github.com/dshills/blockconf/internal/config/diff"
	"github.com/dshills/blockconf/internal/config/export"
	"github.com/dshills/blockconf/internal/config/loader"
	"github.com/dshills/blockconf/internal/config/notify"
	"github.com/dshills/blockconf/internal/config/parser"
	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
	"github.com/dshills/blockconf/internal/config/watcher"
	"github.com/dshills/blockconf/internal/event"
)

// Config owns a block-structured configuration: the source, the current
// store, and the change notification pipeline.
type Config struct {
	// rehashMu serializes the whole parse-diff-dispatch sequence.
	rehashMu sync.Mutex

	// mu guards store contents for concurrent readers during the swap.
	mu sync.RWMutex

	source     *loader.Source
	store      *store.Store
	sink       notify.Sink
	dispatcher *notify.Dispatcher

	watcher       *watcher.Watcher
	enableWatcher bool
	pollInterval  time.Duration
	fs            loader.FileSystem
	path          string
}

// Option configures a Config instance.
type Option func(*Config)

// WithStore populates a pre-existing store instead of a fresh one, so
// configuration can be shared across collaborators that already hold a
// reference to it.
func WithStore(s *store.Store) Option {
	return func(c *Config) {
		if s != nil {
			c.store = s
		}
	}
}

// WithSink sets the event sink that receives change events.
// Defaults to a private event.Bus.
func WithSink(s notify.Sink) Option {
	return func(c *Config) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithFileSystem sets the file system the source is read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// WithWatcher enables file watching: the source is polled and rehashed
// automatically when it changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithPollInterval sets the watcher polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		c.pollInterval = d
	}
}

// New creates a Config for the given source path. The store starts
// empty; call Rehash to populate it.
func New(path string, opts ...Option) *Config {
	c := &Config{
		path: path,
		fs:   loader.DefaultFS(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = store.New()
	}
	if c.sink == nil {
		c.sink = event.NewBus()
	}

	c.source = loader.NewSourceWithFS(c.fs, path)
	c.dispatcher = notify.NewDispatcher(c.sink)

	if c.enableWatcher {
		wopts := []watcher.Option{}
		if c.pollInterval > 0 {
			wopts = append(wopts, watcher.WithInterval(c.pollInterval))
		}
		c.watcher = watcher.New(c.fs, path, wopts...)
		c.watcher.OnChange(func() {
			// Watcher-triggered rehash; errors keep the old store and
			// surface on the next manual Rehash.
			_ = c.Rehash()
		})
		c.watcher.Start()
	}

	return c
}

// Close stops background work. Safe to call multiple times.
func (c *Config) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
}

// Rehash re-reads and reparses the source, replacing the store and
// firing one change event per (block, key) pair.
//
// The pass is all-or-nothing: a read or parse error leaves the previous
// store untouched and fires nothing. A listener error is returned after
// the store swap; the parse itself stood.
func (c *Config) Rehash() error {
	c.rehashMu.Lock()
	defer c.rehashMu.Unlock()

	data, err := c.source.Read()
	if err != nil {
		return &SourceError{Path: c.path, Err: err}
	}

	next, err := parser.Parse(c.path, data)
	if err != nil {
		return err
	}

	snap := c.store.Snapshot()

	c.mu.Lock()
	c.store.Adopt(next)
	c.mu.Unlock()

	records := diff.Compute(snap, c.store)
	return c.dispatcher.Dispatch(records)
}

// Get returns the value for key in the identified block from the last
// successful parse. Returns false if the block or key is absent.
func (c *Config) Get(id store.BlockID, key string) (value.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Get(id, key)
}

// NamesOf returns the names of all named blocks of a type, in file
// order. Empty if the type is absent or exclusively unnamed.
func (c *Config) NamesOf(typ string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.NamesOf(typ)
}

// KeysOf returns the keys of the identified block in first-definition
// order, or an empty slice if the block does not exist.
func (c *Config) KeysOf(id store.BlockID) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.KeysOf(id)
}

// Blocks returns the identifiers of all blocks in file order.
func (c *Config) Blocks() []store.BlockID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Blocks()
}

// Snapshot returns an immutable copy of the current store contents.
func (c *Config) Snapshot() store.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Snapshot()
}

// OnChange registers a callback for changes to key in the identified
// block. Options pass through opaquely to the event sink. The callback
// receives the old and new values; nil means absent.
func (c *Config) OnChange(id store.BlockID, key string, h notify.Handler, opts ...notify.Option) error {
	return c.sink.Register(notify.EventName(id, key), h, opts...)
}

// Sink returns the event sink so callers can use sink-specific features
// such as subscriptions or taps.
func (c *Config) Sink() notify.Sink {
	return c.sink
}

// ExportTOML renders the current store as a TOML document.
func (c *Config) ExportTOML() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return export.TOML(c.store)
}

// ExportJSON renders the current store as a JSON object.
func (c *Config) ExportJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return export.JSON(c.store)
}
