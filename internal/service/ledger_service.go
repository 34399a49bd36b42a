package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	"github.com/acadhub/acadhub-api/internal/repository"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type subjectCounterStore interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ApplyCounterDelta(ctx context.Context, id string, delta models.CounterDelta) error
}

type eventStore interface {
	Insert(ctx context.Context, event *models.AttendanceEvent) error
	FindByID(ctx context.Context, id string) (*models.AttendanceEvent, error)
	Update(ctx context.Context, event *models.AttendanceEvent) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.EventFilter) ([]models.EventRecord, int, error)
	FindLinked(ctx context.Context, subjectID, date string, status models.EventStatus) (*models.AttendanceEvent, error)
}

type auditEnqueuer interface {
	EnqueueSubject(subjectID string)
}

// LedgerService is the only mutation path for attendance state. Every write
// keeps the subject aggregate counters consistent with the event history:
// marks apply the status effect, edits apply the net delta between old and
// new effects in one counter update, deletes reverse the original effect.
type LedgerService struct {
	subjects  subjectCounterStore
	events    eventStore
	cache     *CacheService
	metrics   *MetricsService
	audit     auditEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLedgerService constructs LedgerService.
func NewLedgerService(subjects subjectCounterStore, events eventStore, cache *CacheService, metrics *MetricsService, audit auditEnqueuer, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		subjects:  subjects,
		events:    events,
		cache:     cache,
		metrics:   metrics,
		audit:     audit,
		validator: validate,
		logger:    logger,
	}
}

// MarkEvent logs an attendance event and applies its effect to the subject
// counters. A substituted mark with a substitute id also creates the linked
// substitution_class event crediting the substitute subject; the two counter
// writes are independent relative deltas and the audit queue reconciles any
// drift between them.
func (s *LedgerService) MarkEvent(ctx context.Context, owner string, req dto.MarkEventRequest) (*models.AttendanceEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}

	subject, err := s.ownedSubject(ctx, owner, req.SubjectID)
	if err != nil {
		return nil, err
	}

	var substitute *models.Subject
	if req.Status == models.StatusSubstituted && req.SubstituteID != nil {
		substitute, err = s.ownedSubject(ctx, owner, *req.SubstituteID)
		if err != nil {
			return nil, err
		}
	}

	event := &models.AttendanceEvent{
		SubjectID:     subject.ID,
		Owner:         owner,
		Date:          req.Date,
		Status:        req.Status,
		Note:          req.Note,
		SubstitutedBy: req.SubstituteID,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if err := s.applyDelta(ctx, subject.ID, event.Status.Effect()); err != nil {
		return nil, err
	}

	if substitute != nil {
		linked := &models.AttendanceEvent{
			SubjectID: substitute.ID,
			Owner:     owner,
			Date:      req.Date,
			Status:    models.StatusSubstitution,
			Note:      req.Note,
		}
		if err := s.events.Insert(ctx, linked); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		if err := s.applyDelta(ctx, substitute.ID, linked.Status.Effect()); err != nil {
			return nil, err
		}
		s.enqueueAudit(substitute.ID)
	}

	s.enqueueAudit(subject.ID)
	s.recordMutation("mark")
	s.invalidateDashboards(ctx, owner)
	s.logger.Info("event marked",
		zap.String("owner", owner),
		zap.String("subject_id", subject.ID),
		zap.String("status", string(event.Status)),
		zap.String("date", event.Date),
	)
	return event, nil
}

// EditEvent rewrites an event's status, date or note. The counter adjustment
// is the net of reversing the old effect and applying the new one, written
// as a single guarded update so no intermediate state is observable.
func (s *LedgerService) EditEvent(ctx context.Context, owner, eventID string, req dto.EditEventRequest) (*models.AttendanceEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	event, err := s.ownedEvent(ctx, owner, eventID)
	if err != nil {
		return nil, err
	}

	oldStatus := event.Status
	newStatus := oldStatus
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", *req.Status))
		}
		newStatus = *req.Status
	}

	// Editing away from substituted orphans the linked substitution credit,
	// so the linked event is reversed and removed alongside.
	if oldStatus == models.StatusSubstituted && newStatus != models.StatusSubstituted && event.SubstitutedBy != nil {
		if err := s.reverseLinked(ctx, event); err != nil {
			return nil, err
		}
		event.SubstitutedBy = nil
	}

	// A date edit on a substituted mark moves the linked substitution event
	// with it, keeping the pair locatable for a later reversal.
	if newStatus == models.StatusSubstituted && event.SubstitutedBy != nil && req.Date != nil && *req.Date != event.Date {
		if err := s.moveLinked(ctx, event, *req.Date); err != nil {
			return nil, err
		}
	}

	net := oldStatus.Effect().Invert().Add(newStatus.Effect())
	if err := s.applyDelta(ctx, event.SubjectID, net); err != nil {
		return nil, err
	}

	event.Status = newStatus
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Note != nil {
		event.Note = req.Note
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	s.enqueueAudit(event.SubjectID)
	s.recordMutation("edit")
	s.invalidateDashboards(ctx, owner)
	return event, nil
}

// DeleteEvent removes an event and reverses its counter effect. Deleting a
// substituted event also locates the linked substitution_class event on the
// substitute subject by subject, date and status and reverses it.
func (s *LedgerService) DeleteEvent(ctx context.Context, owner, eventID string) error {
	event, err := s.ownedEvent(ctx, owner, eventID)
	if err != nil {
		return err
	}

	if event.Status == models.StatusSubstituted && event.SubstitutedBy != nil {
		if err := s.reverseLinked(ctx, event); err != nil {
			return err
		}
	}

	if err := s.applyDelta(ctx, event.SubjectID, event.Status.Effect().Invert()); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, event.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	s.enqueueAudit(event.SubjectID)
	s.recordMutation("delete")
	s.invalidateDashboards(ctx, owner)
	s.logger.Info("event deleted",
		zap.String("owner", owner),
		zap.String("event_id", event.ID),
		zap.String("status", string(event.Status)),
	)
	return nil
}

// ListEvents returns the owner's event history newest first.
func (s *LedgerService) ListEvents(ctx context.Context, owner string, req dto.EventListRequest) ([]models.EventRecord, *models.Pagination, error) {
	filter := models.EventFilter{
		Owner:     owner,
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	records, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *LedgerService) ownedSubject(ctx context.Context, owner, subjectID string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if subject.Owner != owner {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return subject, nil
}

func (s *LedgerService) ownedEvent(ctx context.Context, owner, eventID string) (*models.AttendanceEvent, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if event.Owner != owner {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// reverseLinked undoes the substitution credit created alongside a
// substituted mark: the linked event's effect is reversed on the substitute
// subject and the event removed.
func (s *LedgerService) reverseLinked(ctx context.Context, event *models.AttendanceEvent) error {
	linked, err := s.events.FindLinked(ctx, *event.SubstitutedBy, event.Date, models.StatusSubstitution)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("linked substitution event missing",
				zap.String("event_id", event.ID),
				zap.String("substitute_id", *event.SubstitutedBy),
			)
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	if err := s.applyDelta(ctx, linked.SubjectID, linked.Status.Effect().Invert()); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, linked.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	s.enqueueAudit(linked.SubjectID)
	return nil
}

// moveLinked rewrites the linked substitution event's date after a date edit
// on the substituted mark. Counters are untouched; only the link key changes.
func (s *LedgerService) moveLinked(ctx context.Context, event *models.AttendanceEvent, newDate string) error {
	linked, err := s.events.FindLinked(ctx, *event.SubstitutedBy, event.Date, models.StatusSubstitution)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("linked substitution event missing",
				zap.String("event_id", event.ID),
				zap.String("substitute_id", *event.SubstitutedBy),
			)
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	linked.Date = newDate
	if err := s.events.Update(ctx, linked); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return nil
}

func (s *LedgerService) applyDelta(ctx context.Context, subjectID string, delta models.CounterDelta) error {
	err := s.subjects.ApplyCounterDelta(ctx, subjectID, delta)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrCounterGuard) {
		s.logger.Error("counter guard rejected delta, ledger drift suspected",
			zap.String("subject_id", subjectID),
			zap.Int("attended_delta", delta.Attended),
			zap.Int("total_delta", delta.Total),
		)
		s.enqueueAudit(subjectID)
		return appErrors.Clone(appErrors.ErrConsistency, "")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}

func (s *LedgerService) enqueueAudit(subjectID string) {
	if s.audit != nil {
		s.audit.EnqueueSubject(subjectID)
	}
}

func (s *LedgerService) recordMutation(operation string) {
	if s.metrics != nil {
		s.metrics.RecordLedgerMutation(operation)
	}
}

func (s *LedgerService) invalidateDashboards(ctx context.Context, owner string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:%s:*", owner))
	}
}
