package repositories

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
)

// ProcedureRepository defines the interface for procedure catalog access
type ProcedureRepository interface {
	// GetByID retrieves a procedure by ID
	GetByID(ctx context.Context, id string) (*entities.ProcedureRecord, error)

	// GetByIDs retrieves multiple procedures by their IDs. Unknown IDs are
	// silently skipped; the result order is unspecified and callers that
	// care about ordering must reorder against their input.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.ProcedureRecord, error)

	// List retrieves procedures with filters
	List(ctx context.Context, filter ProcedureFilter) ([]*entities.ProcedureRecord, error)
}

// ProcedureFilter defines filters for listing procedures
type ProcedureFilter struct {
	Category string
	Limit    int
	Offset   int
}

// BundleRepository defines the interface for starter-pack access
type BundleRepository interface {
	// GetBundle retrieves a bundle by ID
	GetBundle(ctx context.Context, id string) (*entities.Bundle, error)

	// ListBundles retrieves all bundles
	ListBundles(ctx context.Context) ([]*entities.Bundle, error)
}
