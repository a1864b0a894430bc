package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidEvent is returned when an event name is empty.
	ErrInvalidEvent = errors.New("invalid event name")

	// ErrInvalidOption is returned when a pass-through option is not
	// a SubscriptionOption this bus understands.
	ErrInvalidOption = errors.New("invalid subscription option")

	// ErrInvalidSubscription is returned when a subscription is nil or
	// belongs to another bus.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing a
	// subscription the bus no longer holds.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// HandlerError wraps an error from a listener with registration context.
type HandlerError struct {
	// SubscriptionID is the ID of the registration whose handler failed.
	SubscriptionID string

	// Event is the event name the handler was registered on.
	Event string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "handler error for subscription " + e.SubscriptionID + " on event " + e.Event + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
