package notifications

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
)

// LogNotifier records user-facing notifications as structured log events.
// The frontend renders its own transient toast from the handler response;
// this keeps a server-side trail of what the visitor was told.
type LogNotifier struct{}

// NewLogNotifier creates a new log-backed notifier
func NewLogNotifier() providers.Notifier {
	return &LogNotifier{}
}

// Notify implements providers.Notifier
func (n *LogNotifier) Notify(ctx context.Context, message string, kind providers.NotificationKind) {
	logger := observability.LoggerFromContext(ctx)
	switch kind {
	case providers.NotificationError:
		logger.Warn().Str("kind", string(kind)).Msg(message)
	default:
		logger.Info().Str("kind", string(kind)).Msg(message)
	}
}
