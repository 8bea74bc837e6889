// Package notifications publishes scan events to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers publish unconditionally. Scan completion events can be limited to
// runs that found broken videos with notifications.on_broken_only.
package notifications
