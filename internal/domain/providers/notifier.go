package providers

import "context"

// NotificationKind classifies a user-facing notification
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notifier records transient user-facing notifications. Services emit
// through this interface instead of manipulating any presentation layer
// directly, so they stay testable without one.
type Notifier interface {
	Notify(ctx context.Context, message string, kind NotificationKind)
}
