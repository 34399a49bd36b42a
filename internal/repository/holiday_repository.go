package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/acadhub-api/internal/models"
)

// HolidayRepository handles persistence for holiday dates.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository creates a new repository instance.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListByOwner returns the owner's holidays ordered by date.
func (r *HolidayRepository) ListByOwner(ctx context.Context, owner string) ([]models.Holiday, error) {
	const query = `SELECT id, owner, date, label, created_at FROM holidays WHERE owner = $1 ORDER BY date`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, owner); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Create persists a new holiday.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO holidays (id, owner, date, label, created_at)
		VALUES (:id, :owner, :date, :label, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Delete removes an owner's holiday record.
func (r *HolidayRepository) Delete(ctx context.Context, owner, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1 AND owner = $2`, id, owner); err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	return nil
}
