package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
)

// ProcedureAdapter implements ProcedureRepository over PostgreSQL. Steps are
// stored as a JSONB column; need_to_know as a text array.
type ProcedureAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcedureAdapter creates a new procedure adapter
func NewProcedureAdapter(client *postgres.Client) *ProcedureAdapter {
	return &ProcedureAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var procedureSelectCols = []interface{}{
	"id", "name", "category", "description", "summary",
	"need_to_know", "steps", "image", "detail",
}

// GetByID retrieves a procedure by ID
func (a *ProcedureAdapter) GetByID(ctx context.Context, id string) (*entities.ProcedureRecord, error) {
	query, args, err := a.db.Select(procedureSelectCols...).
		From("procedures").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record, err := a.scanProcedure(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("procedure with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get procedure", err)
	}
	return record, nil
}

// GetByIDs retrieves multiple procedures by their IDs; unknown IDs are skipped
func (a *ProcedureAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.ProcedureRecord, error) {
	if len(ids) == 0 {
		return []*entities.ProcedureRecord{}, nil
	}

	query, args, err := a.db.Select(procedureSelectCols...).
		From("procedures").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryProcedures(ctx, query, args...)
}

// List retrieves procedures with filters
func (a *ProcedureAdapter) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.ProcedureRecord, error) {
	ds := a.db.Select(procedureSelectCols...).From("procedures")

	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}

	ds = ds.Order(goqu.I("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryProcedures(ctx, query, args...)
}

// Upsert inserts or replaces a catalog record; used by the seed tool
func (a *ProcedureAdapter) Upsert(ctx context.Context, record *entities.ProcedureRecord) error {
	steps, err := json.Marshal(record.Steps)
	if err != nil {
		return apperrors.NewInternalError("failed to encode steps", err)
	}

	row := goqu.Record{
		"id":           record.ID,
		"name":         record.Name,
		"category":     record.Category,
		"description":  record.Description,
		"summary":      record.Summary,
		"need_to_know": pq.Array(record.NeedToKnow),
		"steps":        steps,
		"image":        sql.NullString{String: record.Image, Valid: record.Image != ""},
		"detail":       sql.NullString{String: record.Detail, Valid: record.Detail != ""},
	}

	query, args, err := a.db.Insert("procedures").
		Rows(row).
		OnConflict(goqu.DoUpdate("id", row)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert procedure", err)
	}
	return nil
}

func (a *ProcedureAdapter) queryProcedures(ctx context.Context, query string, args ...interface{}) ([]*entities.ProcedureRecord, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query procedures", err)
	}
	defer rows.Close()

	var records []*entities.ProcedureRecord
	for rows.Next() {
		record, err := a.scanProcedure(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan procedure", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating procedures", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *ProcedureAdapter) scanProcedure(row rowScanner) (*entities.ProcedureRecord, error) {
	record := &entities.ProcedureRecord{}
	var steps []byte
	var image, detail sql.NullString

	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Category,
		&record.Description,
		&record.Summary,
		pq.Array(&record.NeedToKnow),
		&steps,
		&image,
		&detail,
	)
	if err != nil {
		return nil, err
	}

	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &record.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode steps for %s: %w", record.ID, err)
		}
	}
	record.Image = image.String
	record.Detail = detail.String

	return record, nil
}
