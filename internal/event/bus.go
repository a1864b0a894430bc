package event

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/blockconf/internal/config/notify"
	"github.com/dshills/blockconf/internal/config/value"
)

// TapFunc observes every fired event regardless of name.
type TapFunc func(event string, old, new *value.Value)

// Bus is a synchronous event sink with priority ordering and named
// listener deduplication. It implements notify.Sink.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]*listener
	taps      []TapFunc
	seq       uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]*listener),
	}
}

// Subscribe registers a handler for an event name and returns a handle
// for later cancellation. Safe for concurrent use.
func (b *Bus) Subscribe(event string, h notify.Handler, opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if event == "" {
		return nil, ErrInvalidEvent
	}

	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	l := &listener{
		id:      uuid.NewString(),
		event:   event,
		handler: h,
		config:  config,
		seq:     b.seq,
	}

	regs := b.listeners[event]
	if config.Name != "" {
		// Dedup by name: drop any earlier listener with the same name.
		kept := regs[:0]
		for _, r := range regs {
			if r.config.Name == config.Name {
				r.Cancel()
				continue
			}
			kept = append(kept, r)
		}
		regs = kept
	}

	regs = append(regs, l)
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].config.Priority != regs[j].config.Priority {
			return regs[i].config.Priority < regs[j].config.Priority
		}
		return regs[i].seq < regs[j].seq
	})
	b.listeners[event] = regs

	return l, nil
}

// Register implements notify.Sink. Options must be SubscriptionOption
// values from this package.
func (b *Bus) Register(event string, h notify.Handler, opts ...notify.Option) error {
	subOpts := make([]SubscriptionOption, 0, len(opts))
	for _, opt := range opts {
		so, ok := opt.(SubscriptionOption)
		if !ok {
			return ErrInvalidOption
		}
		subOpts = append(subOpts, so)
	}
	_, err := b.Subscribe(event, h, subOpts...)
	return err
}

// Unsubscribe cancels and removes a subscription created by Subscribe.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.listeners[sub.Event()]
	if !ok {
		return ErrSubscriptionNotFound
	}
	for i, r := range regs {
		if r.id == sub.ID() {
			b.listeners[sub.Event()] = append(regs[:i], regs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Tap registers an observer called for every fired event, after taps
// registered earlier. Taps cannot fail and cannot be removed; they are
// intended for logging and tooling.
func (b *Bus) Tap(fn TapFunc) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, fn)
}

// Fire implements notify.Sink. Listeners run synchronously in priority
// order; the first listener error stops delivery and is returned.
func (b *Bus) Fire(event string, old, new *value.Value) error {
	if event == "" {
		return ErrInvalidEvent
	}

	b.mu.RLock()
	regs := make([]*listener, 0, len(b.listeners[event]))
	for _, r := range b.listeners[event] {
		if r.IsActive() {
			regs = append(regs, r)
		}
	}
	taps := make([]TapFunc, len(b.taps))
	copy(taps, b.taps)
	b.mu.RUnlock()

	for _, tap := range taps {
		tap(event, old, new)
	}

	for _, r := range regs {
		err := r.handler(old, new)
		if r.config.Once {
			r.Cancel()
		}
		if err != nil {
			return &HandlerError{SubscriptionID: r.id, Event: event, Err: err}
		}
	}

	b.sweep(event)
	return nil
}

// Listeners returns the number of active listeners for an event.
func (b *Bus) Listeners(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, r := range b.listeners[event] {
		if r.IsActive() {
			n++
		}
	}
	return n
}

// sweep drops cancelled listeners for an event.
func (b *Bus) sweep(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.listeners[event]
	if !ok {
		return
	}
	kept := regs[:0]
	for _, r := range regs {
		if r.IsActive() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(b.listeners, event)
		return
	}
	b.listeners[event] = kept
}
