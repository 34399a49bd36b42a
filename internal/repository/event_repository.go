package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/acadhub-api/internal/models"
)

const eventColumns = `id, subject_id, owner, date, status, note, substituted_by, created_at, updated_at`

// EventRepository handles persistence for attendance events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new repository instance.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert persists a new attendance event.
func (r *EventRepository) Insert(ctx context.Context, event *models.AttendanceEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO attendance_events (id, subject_id, owner, date, status, note, substituted_by, created_at, updated_at)
		VALUES (:id, :subject_id, :owner, :date, :status, :note, :substituted_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// FindByID returns an event by id.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.AttendanceEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_events WHERE id = $1", eventColumns)
	var event models.AttendanceEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update rewrites the mutable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.AttendanceEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance_events SET date = :date, status = :status, note = :note,
		substituted_by = :substituted_by, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event record.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// List returns the owner's events newest first with pagination metadata.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventRecord, int, error) {
	base := `FROM attendance_events e JOIN subjects s ON s.id = e.subject_id WHERE e.owner = $1`
	args := []interface{}{filter.Owner}

	if filter.SubjectID != "" {
		base += fmt.Sprintf(" AND e.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.Date != "" {
		base += fmt.Sprintf(" AND e.date = $%d", len(args)+1)
		args = append(args, filter.Date)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT e.id, e.subject_id, e.owner, e.date, e.status, e.note, e.substituted_by,
		e.created_at, e.updated_at, s.name AS subject_name, s.code AS subject_code
		%s ORDER BY e.date DESC, e.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var records []models.EventRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	return records, total, nil
}

// ListByOwnerAndDate returns the date's events in the order they were marked.
func (r *EventRepository) ListByOwnerAndDate(ctx context.Context, owner, date string) ([]models.AttendanceEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_events WHERE owner = $1 AND date = $2 ORDER BY created_at", eventColumns)
	var events []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &events, query, owner, date); err != nil {
		return nil, fmt.Errorf("list events by date: %w", err)
	}
	return events, nil
}

// ListSince returns the owner's events dated on or after the cutoff.
func (r *EventRepository) ListSince(ctx context.Context, owner, fromDate string) ([]models.AttendanceEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_events WHERE owner = $1 AND date >= $2 ORDER BY date", eventColumns)
	var events []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &events, query, owner, fromDate); err != nil {
		return nil, fmt.Errorf("list events since: %w", err)
	}
	return events, nil
}

// ListBySubject returns a subject's full event history, oldest first.
func (r *EventRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.AttendanceEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_events WHERE subject_id = $1 ORDER BY date, created_at", eventColumns)
	var events []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &events, query, subjectID); err != nil {
		return nil, fmt.Errorf("list events by subject: %w", err)
	}
	return events, nil
}

// FindLinked locates the substitution event created alongside a substituted
// mark, matched by substitute subject, date and status.
func (r *EventRepository) FindLinked(ctx context.Context, subjectID, date string, status models.EventStatus) (*models.AttendanceEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_events
		WHERE subject_id = $1 AND date = $2 AND status = $3
		ORDER BY created_at DESC LIMIT 1`, eventColumns)
	var event models.AttendanceEvent
	if err := r.db.GetContext(ctx, &event, query, subjectID, date, status); err != nil {
		return nil, err
	}
	return &event, nil
}
