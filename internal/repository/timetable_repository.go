package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/acadhub-api/internal/models"
)

// TimetableRepository handles persistence for weekly schedules.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// Get returns the owner's schedule row for a semester with the structure
// column kept raw.
func (r *TimetableRepository) Get(ctx context.Context, owner string, semester int) (*models.ScheduleRecord, error) {
	const query = `SELECT id, owner, semester, schedule, schema_version, created_at, updated_at
		FROM weekly_schedules WHERE owner = $1 AND semester = $2`
	var record models.ScheduleRecord
	if err := r.db.GetContext(ctx, &record, query, owner, semester); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert replaces the owner's schedule for a semester.
func (r *TimetableRepository) Upsert(ctx context.Context, schedule *models.WeeklySchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO weekly_schedules (id, owner, semester, schedule, schema_version, created_at, updated_at)
		VALUES (:id, :owner, :semester, :schedule, :schema_version, :created_at, :updated_at)
		ON CONFLICT (owner, semester) DO UPDATE SET schedule = EXCLUDED.schedule,
		schema_version = EXCLUDED.schema_version, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// SaveMigrated writes back a schedule converted to the current schema.
func (r *TimetableRepository) SaveMigrated(ctx context.Context, id string, schedule []byte, version int) error {
	const query = `UPDATE weekly_schedules SET schedule = $1, schema_version = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, schedule, version, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("save migrated schedule: %w", err)
	}
	return nil
}
