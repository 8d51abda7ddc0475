package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

//go:embed data/procedures.json
var catalogData []byte

type catalogFile struct {
	Procedures []*entities.ProcedureRecord `json:"procedures"`
	Bundles    []*entities.Bundle          `json:"bundles"`
}

// StaticAdapter implements ProcedureRepository and BundleRepository over the
// catalog shipped with the binary. Records are immutable after load.
type StaticAdapter struct {
	procedures []*entities.ProcedureRecord
	byID       map[string]*entities.ProcedureRecord
	bundles    []*entities.Bundle
	bundleByID map[string]*entities.Bundle
}

// NewStaticAdapter parses the embedded catalog
func NewStaticAdapter() (*StaticAdapter, error) {
	return newFromBytes(catalogData)
}

func newFromBytes(data []byte) (*StaticAdapter, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	a := &StaticAdapter{
		procedures: file.Procedures,
		byID:       make(map[string]*entities.ProcedureRecord, len(file.Procedures)),
		bundles:    file.Bundles,
		bundleByID: make(map[string]*entities.Bundle, len(file.Bundles)),
	}

	for _, p := range file.Procedures {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", p.Name)
		}
		if _, exists := a.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %q", p.ID)
		}
		a.byID[p.ID] = p
	}

	for _, b := range file.Bundles {
		for _, id := range b.ProcedureIDs {
			if _, ok := a.byID[id]; !ok {
				return nil, fmt.Errorf("bundle %q references unknown procedure %q", b.ID, id)
			}
		}
		a.bundleByID[b.ID] = b
	}

	return a, nil
}

// GetByID retrieves a procedure by ID
func (a *StaticAdapter) GetByID(ctx context.Context, id string) (*entities.ProcedureRecord, error) {
	if p, ok := a.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", id))
}

// GetByIDs retrieves multiple procedures by their IDs, skipping unknown IDs
func (a *StaticAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.ProcedureRecord, error) {
	records := make([]*entities.ProcedureRecord, 0, len(ids))
	for _, id := range ids {
		if p, ok := a.byID[id]; ok {
			records = append(records, p)
		}
	}
	return records, nil
}

// List retrieves procedures with filters, in catalog declaration order
func (a *StaticAdapter) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.ProcedureRecord, error) {
	var records []*entities.ProcedureRecord
	for _, p := range a.procedures {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		records = append(records, p)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return []*entities.ProcedureRecord{}, nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records, nil
}

// GetBundle retrieves a bundle by ID
func (a *StaticAdapter) GetBundle(ctx context.Context, id string) (*entities.Bundle, error) {
	if b, ok := a.bundleByID[id]; ok {
		return b, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("bundle with id %s not found", id))
}

// ListBundles retrieves all bundles
func (a *StaticAdapter) ListBundles(ctx context.Context) ([]*entities.Bundle, error) {
	return a.bundles, nil
}
