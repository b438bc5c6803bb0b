// Package notifications delivers job milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The worker and API handlers depend only on the small Service
// interface, so alternative transports can slot in without touching callers.
package notifications
