package services

import (
	"context"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
)

// SelectionService handles business logic for per-session procedure
// selections. All mutations validate against the catalog before touching the
// stored selection, so a selection can only ever reference known IDs.
type SelectionService struct {
	selections repositories.SelectionRepository
	procedures repositories.ProcedureRepository
	bundles    repositories.BundleRepository
}

// NewSelectionService creates a new selection service
func NewSelectionService(
	selections repositories.SelectionRepository,
	procedures repositories.ProcedureRepository,
	bundles repositories.BundleRepository,
) *SelectionService {
	return &SelectionService{
		selections: selections,
		procedures: procedures,
		bundles:    bundles,
	}
}

// Get retrieves the current selection for a session
func (s *SelectionService) Get(ctx context.Context, sessionID string) (*entities.Selection, error) {
	return s.selections.Get(ctx, sessionID)
}

// AddItem adds a procedure to the selection. Adding an already-selected
// procedure is a no-op and keeps the original position.
func (s *SelectionService) AddItem(ctx context.Context, sessionID, procedureID string) (*entities.Selection, error) {
	if _, err := s.procedures.GetByID(ctx, procedureID); err != nil {
		return nil, err
	}

	sel, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel.Add(procedureID)
	if err := s.selections.Save(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// RemoveItem removes a procedure from the selection. Removing an absent
// procedure is a no-op.
func (s *SelectionService) RemoveItem(ctx context.Context, sessionID, procedureID string) (*entities.Selection, error) {
	sel, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel.Remove(procedureID)
	if err := s.selections.Save(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// AddBundle adds every procedure of a curated bundle and marks the bundle as
// selected. Members already selected keep their position.
func (s *SelectionService) AddBundle(ctx context.Context, sessionID, bundleID string) (*entities.Selection, error) {
	bundle, err := s.bundles.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	sel, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel.AddBundle(bundle.ID, bundle.ProcedureIDs)
	if err := s.selections.Save(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// RemoveBundle removes a bundle's members from the selection and unmarks the
// bundle
func (s *SelectionService) RemoveBundle(ctx context.Context, sessionID, bundleID string) (*entities.Selection, error) {
	bundle, err := s.bundles.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	sel, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel.RemoveBundle(bundle.ID, bundle.ProcedureIDs)
	if err := s.selections.Save(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Clear empties the selection for a session
func (s *SelectionService) Clear(ctx context.Context, sessionID string) error {
	return s.selections.Delete(ctx, sessionID)
}
