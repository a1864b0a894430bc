// Package notify converts change records into addressable events and
// delivers them through an event sink.
//
// The wire format of event names is a compatibility surface:
//
//	change:<type>:<key>         unnamed block
//	change:<type>/<name>:<key>  named block
//
// The core depends only on the Sink capability interface; listener
// priorities, naming, and unregistration are the sink's concern.
package notify

import (
	"fmt"

	"github.com/dshills/blockconf/internal/config/diff"
	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
)

// Handler receives the previous and current values for a changed key.
// A nil pointer means the key was absent on that side of the parse.
type Handler func(old, new *value.Value) error

// Option is an opaque registration option passed through to the sink.
// Sink implementations interpret the options they understand.
type Option any

// Sink is the capability interface for the external event mechanism.
type Sink interface {
	// Register subscribes a handler to an event name.
	Register(event string, h Handler, opts ...Option) error

	// Fire delivers one event synchronously to all registered
	// handlers and returns the first handler error, if any.
	Fire(event string, old, new *value.Value) error
}

// EventName returns the wire name for a change to key in the block id.
func EventName(id store.BlockID, key string) string {
	return fmt.Sprintf("change:%s:%s", id, key)
}

// Dispatcher fires one event per change record through a sink.
type Dispatcher struct {
	sink Sink
}

// NewDispatcher creates a dispatcher bound to the given sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch fires records in order, one event each. Delivery is
// synchronous; the first handler error stops dispatch and is returned
// to the caller.
func (d *Dispatcher) Dispatch(records []diff.ChangeRecord) error {
	for _, rec := range records {
		name := EventName(rec.Block, rec.Key)
		if err := d.sink.Fire(name, rec.Old, rec.New); err != nil {
			return fmt.Errorf("dispatching %s: %w", name, err)
		}
	}
	return nil
}
