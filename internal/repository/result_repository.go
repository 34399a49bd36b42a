package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/acadhub-api/internal/models"
)

const resultColumns = `id, owner, semester, subjects, total_credits, sgpa, created_at, updated_at`

// ResultRepository handles persistence for semester grade records.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new repository instance.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert stores the semester result, replacing any prior record for the
// same owner and semester.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.SemesterResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now

	const query = `INSERT INTO semester_results (id, owner, semester, subjects, total_credits, sgpa, created_at, updated_at)
		VALUES (:id, :owner, :semester, :subjects, :total_credits, :sgpa, :created_at, :updated_at)
		ON CONFLICT (owner, semester) DO UPDATE SET subjects = EXCLUDED.subjects,
		total_credits = EXCLUDED.total_credits, sgpa = EXCLUDED.sgpa, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert semester result: %w", err)
	}
	return nil
}

// Get returns one semester's record.
func (r *ResultRepository) Get(ctx context.Context, owner string, semester int) (*models.SemesterResult, error) {
	query := fmt.Sprintf("SELECT %s FROM semester_results WHERE owner = $1 AND semester = $2", resultColumns)
	var result models.SemesterResult
	if err := r.db.GetContext(ctx, &result, query, owner, semester); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByOwner returns every stored semester result ordered by semester.
func (r *ResultRepository) ListByOwner(ctx context.Context, owner string) ([]models.SemesterResult, error) {
	query := fmt.Sprintf("SELECT %s FROM semester_results WHERE owner = $1 ORDER BY semester", resultColumns)
	var results []models.SemesterResult
	if err := r.db.SelectContext(ctx, &results, query, owner); err != nil {
		return nil, fmt.Errorf("list semester results: %w", err)
	}
	return results, nil
}

// Delete removes one semester's record.
func (r *ResultRepository) Delete(ctx context.Context, owner string, semester int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM semester_results WHERE owner = $1 AND semester = $2`, owner, semester); err != nil {
		return fmt.Errorf("delete semester result: %w", err)
	}
	return nil
}
