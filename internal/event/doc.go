// Package event provides the default event sink for configuration
// change notification.
//
// The bus delivers events synchronously in priority order. Listeners
// may carry a name; registering a second listener with the same name on
// the same event replaces the first, so repeated registrations from a
// reloaded component do not stack. Subscription handles support
// cancellation and unregistration.
//
// The configuration core depends only on the notify.Sink interface;
// this package is one implementation and can be swapped for an
// application-wide bus.
package event
