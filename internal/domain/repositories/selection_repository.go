package repositories

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// SelectionRepository defines the interface for per-session selection storage.
// Implementations must preserve item insertion order.
type SelectionRepository interface {
	// Get retrieves the selection for a session, returning an empty
	// selection when none has been stored yet
	Get(ctx context.Context, sessionID string) (*entities.Selection, error)

	// Save stores the selection for its session
	Save(ctx context.Context, selection *entities.Selection) error

	// Delete removes the stored selection for a session
	Delete(ctx context.Context, sessionID string) error
}
