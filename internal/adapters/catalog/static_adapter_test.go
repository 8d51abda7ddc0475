package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

func TestNewStaticAdapter_LoadsEmbeddedCatalog(t *testing.T) {
	adapter, err := NewStaticAdapter()
	require.NoError(t, err)

	records, err := adapter.List(context.Background(), repositories.ProcedureFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	// every record must satisfy the catalog schema invariants
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Steps, "procedure %s has no steps", r.ID)
	}
}

func TestStaticAdapter_GetByID(t *testing.T) {
	adapter, err := NewStaticAdapter()
	require.NoError(t, err)

	record, err := adapter.GetByID(context.Background(), "echocardiogram")
	require.NoError(t, err)
	assert.Equal(t, "Echocardiogram", record.Name)

	_, err = adapter.GetByID(context.Background(), "no-such-procedure")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestStaticAdapter_GetByIDs_FiltersUnknown(t *testing.T) {
	adapter, err := NewStaticAdapter()
	require.NoError(t, err)

	records, err := adapter.GetByIDs(context.Background(), []string{"echocardiogram", "stale-id", "holter"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "echocardiogram", records[0].ID)
	assert.Equal(t, "holter", records[1].ID)
}

func TestStaticAdapter_List_CategoryFilter(t *testing.T) {
	adapter, err := NewStaticAdapter()
	require.NoError(t, err)

	records, err := adapter.List(context.Background(), repositories.ProcedureFilter{Category: "Rhythm"})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Equal(t, "Rhythm", r.Category)
	}
}

func TestStaticAdapter_Bundles(t *testing.T) {
	adapter, err := NewStaticAdapter()
	require.NoError(t, err)

	bundles, err := adapter.ListBundles(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, bundles)

	// every bundle must reference only known procedures
	for _, b := range bundles {
		for _, id := range b.ProcedureIDs {
			_, err := adapter.GetByID(context.Background(), id)
			assert.NoError(t, err, "bundle %s references %s", b.ID, id)
		}
	}

	_, err = adapter.GetBundle(context.Background(), "missing-bundle")
	assert.Error(t, err)
}

func TestNewFromBytes_RejectsBadData(t *testing.T) {
	_, err := newFromBytes([]byte(`{"procedures": [{"name": "No ID"}]}`))
	assert.Error(t, err)

	_, err = newFromBytes([]byte(`not json`))
	assert.Error(t, err)

	_, err = newFromBytes([]byte(`{
		"procedures": [{"id": "a", "name": "A"}],
		"bundles": [{"id": "b", "name": "B", "procedureIds": ["a", "ghost"]}]
	}`))
	assert.Error(t, err)
}
