package event

import (
	"sync/atomic"

	"github.com/dshills/blockconf/internal/config/notify"
)

// Priority determines listener execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for listeners that must observe a change first.
	PriorityCritical Priority = 0

	// PriorityHigh runs before the default tier.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for listeners that should run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// SubscriptionConfig contains configuration for a listener registration.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Name deduplicates listeners: registering the same name on the
	// same event replaces the earlier listener. Empty means unnamed.
	Name string

	// Once auto-cancels the listener after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns the default registration configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Priority: PriorityNormal,
	}
}

// SubscriptionOption configures a listener registration. It satisfies
// notify.Option so callers can pass options through the Sink interface.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the listener priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithName sets a dedup name for the listener.
func WithName(name string) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Name = name
	}
}

// WithOnce auto-cancels the listener after the first delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// Subscription is a handle to an active listener registration.
type Subscription interface {
	// ID returns the unique registration identifier.
	ID() string

	// Event returns the event name the listener is registered on.
	Event() string

	// IsActive returns true if the listener can still receive events.
	IsActive() bool

	// Cancel permanently deactivates the listener. The bus drops
	// cancelled listeners on the next delivery or unsubscribe.
	Cancel()
}

// listener is the internal registration record.
type listener struct {
	id        string
	event     string
	handler   notify.Handler
	config    SubscriptionConfig
	seq       uint64
	cancelled atomic.Bool
}

// ID returns the registration identifier.
func (l *listener) ID() string {
	return l.id
}

// Event returns the registered event name.
func (l *listener) Event() string {
	return l.event
}

// IsActive returns true if the listener has not been cancelled.
func (l *listener) IsActive() bool {
	return !l.cancelled.Load()
}

// Cancel permanently deactivates the listener.
func (l *listener) Cancel() {
	l.cancelled.Store(true)
}
