package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
)

// ErrCounterGuard signals that a counter update was rejected by the
// aggregate invariant guard. The stored counters no longer agree with the
// requested delta and need an audit.
var ErrCounterGuard = errors.New("counter guard rejected")

const subjectColumns = `id, owner, semester, name, code, categories, professor, classroom,
	attended, total, practicals_total, practicals_completed, practicals_hardcopy,
	assignments_total, assignments_completed, assignments_hardcopy, created_at, updated_at`

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns the owner's subjects matching filters with pagination metadata.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE owner = $1"
	args := []interface{}{filter.Owner}

	if filter.Semester != nil {
		base += fmt.Sprintf(" AND semester = $%d", len(args)+1)
		args = append(args, *filter.Semester)
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY semester, name LIMIT %d OFFSET %d", subjectColumns, base, size, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	return subjects, total, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, owner, semester, name, code, categories, professor, classroom,
		attended, total, practicals_total, practicals_completed, practicals_hardcopy,
		assignments_total, assignments_completed, assignments_hardcopy, created_at, updated_at)
		VALUES (:id, :owner, :semester, :name, :code, :categories, :professor, :classroom,
		:attended, :total, :practicals_total, :practicals_completed, :practicals_hardcopy,
		:assignments_total, :assignments_completed, :assignments_hardcopy, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies subject metadata and progress counters.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET semester = :semester, name = :name, code = :code,
		categories = :categories, professor = :professor, classroom = :classroom,
		practicals_total = :practicals_total, practicals_completed = :practicals_completed,
		practicals_hardcopy = :practicals_hardcopy, assignments_total = :assignments_total,
		assignments_completed = :assignments_completed, assignments_hardcopy = :assignments_hardcopy,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// ApplyCounterDelta adjusts attendance counters with a single guarded
// statement. The guard enforces 0 <= attended <= total after the increment;
// a rejected update returns ErrCounterGuard instead of clamping.
func (r *SubjectRepository) ApplyCounterDelta(ctx context.Context, id string, delta models.CounterDelta) error {
	if delta.IsZero() {
		return nil
	}
	const query = `UPDATE subjects
		SET attended = attended + $1, total = total + $2, updated_at = $3
		WHERE id = $4 AND attended + $1 >= 0 AND total + $2 >= attended + $1`
	res, err := r.db.ExecContext(ctx, query, delta.Attended, delta.Total, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("apply counter delta: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply counter delta: %w", err)
	}
	if affected == 0 {
		return ErrCounterGuard
	}
	return nil
}

// SetCounters overwrites the attendance counters, used by the audit repair.
func (r *SubjectRepository) SetCounters(ctx context.Context, id string, attended, total int) error {
	const query = `UPDATE subjects SET attended = $1, total = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, attended, total, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set counters: %w", err)
	}
	return nil
}

// Delete removes a subject and its attendance events in one transaction.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete subject: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_events WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete subject events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete subject: %w", err)
	}
	return nil
}

// OverviewBySemester aggregates attendance counters per semester.
func (r *SubjectRepository) OverviewBySemester(ctx context.Context, owner string) ([]dto.SemesterOverviewEntry, error) {
	const query = `SELECT semester, COUNT(*) AS subjects, COALESCE(SUM(attended), 0) AS attended,
		COALESCE(SUM(total), 0) AS total
		FROM subjects WHERE owner = $1 GROUP BY semester ORDER BY semester`
	var rows []struct {
		Semester int `db:"semester"`
		Subjects int `db:"subjects"`
		Attended int `db:"attended"`
		Total    int `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, fmt.Errorf("semester overview: %w", err)
	}

	entries := make([]dto.SemesterOverviewEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.SemesterOverviewEntry{
			Semester: row.Semester,
			Subjects: row.Subjects,
			Attended: row.Attended,
			Total:    row.Total,
		})
	}
	return entries, nil
}
