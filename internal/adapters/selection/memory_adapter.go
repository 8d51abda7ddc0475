package selection

import (
	"context"
	"sync"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
)

// MemoryAdapter implements SelectionRepository in process memory. Selections
// live for the lifetime of the server; this is the default store when Redis
// is not configured.
type MemoryAdapter struct {
	mu         sync.RWMutex
	selections map[string]*entities.Selection
}

// NewMemoryAdapter creates a new in-memory selection store
func NewMemoryAdapter() repositories.SelectionRepository {
	return &MemoryAdapter{
		selections: make(map[string]*entities.Selection),
	}
}

// Get retrieves the selection for a session, returning an empty selection
// when none exists
func (a *MemoryAdapter) Get(ctx context.Context, sessionID string) (*entities.Selection, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stored, ok := a.selections[sessionID]
	if !ok {
		return entities.NewSelection(sessionID), nil
	}

	// Copy so callers can mutate freely before Save
	return copySelection(stored), nil
}

// Save stores the selection for its session
func (a *MemoryAdapter) Save(ctx context.Context, selection *entities.Selection) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := copySelection(selection)
	stored.UpdatedAt = time.Now().UTC()
	a.selections[selection.SessionID] = stored
	return nil
}

// Delete removes the stored selection for a session
func (a *MemoryAdapter) Delete(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.selections, sessionID)
	return nil
}

func copySelection(s *entities.Selection) *entities.Selection {
	out := &entities.Selection{
		SessionID: s.SessionID,
		Items:     make([]string, len(s.Items)),
		Bundles:   make([]string, len(s.Bundles)),
		UpdatedAt: s.UpdatedAt,
	}
	copy(out.Items, s.Items)
	copy(out.Bundles, s.Bundles)
	return out
}
