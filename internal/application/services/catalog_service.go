package services

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
)

// CatalogService handles read access to the procedure catalog
type CatalogService struct {
	procedures repositories.ProcedureRepository
	bundles    repositories.BundleRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(procedures repositories.ProcedureRepository, bundles repositories.BundleRepository) *CatalogService {
	return &CatalogService{
		procedures: procedures,
		bundles:    bundles,
	}
}

// List retrieves procedures matching the filter
func (s *CatalogService) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.ProcedureRecord, error) {
	return s.procedures.List(ctx, filter)
}

// GetByID retrieves a single procedure
func (s *CatalogService) GetByID(ctx context.Context, id string) (*entities.ProcedureRecord, error) {
	return s.procedures.GetByID(ctx, id)
}

// ListBundles retrieves all curated procedure bundles
func (s *CatalogService) ListBundles(ctx context.Context) ([]*entities.Bundle, error) {
	return s.bundles.ListBundles(ctx)
}
