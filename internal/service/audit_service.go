package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/jobs"
)

type auditSubjectStore interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	SetCounters(ctx context.Context, id string, attended, total int) error
}

type auditEventStore interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.AttendanceEvent, error)
}

// AuditReport describes one subject's counter audit.
type AuditReport struct {
	SubjectID        string `json:"subject_id"`
	StoredAttended   int    `json:"stored_attended"`
	StoredTotal      int    `json:"stored_total"`
	ComputedAttended int    `json:"computed_attended"`
	ComputedTotal    int    `json:"computed_total"`
	Drift            bool   `json:"drift"`
	Repaired         bool   `json:"repaired"`
}

// LedgerAuditService recomputes subject counters from the event history and
// repairs stored aggregates that have drifted. Substitution writes touch two
// subjects without a shared transaction, so mutations enqueue an audit for
// every subject they touched.
type LedgerAuditService struct {
	subjects auditSubjectStore
	events   auditEventStore
	metrics  *MetricsService
	logger   *zap.Logger
	queue    *jobs.Queue
}

// NewLedgerAuditService constructs the audit service and its worker queue.
func NewLedgerAuditService(subjects auditSubjectStore, events auditEventStore, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *LedgerAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LedgerAuditService{
		subjects: subjects,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("ledger-audit", s.handleJob, cfg)
	return s
}

// Start launches the audit workers.
func (s *LedgerAuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the audit workers.
func (s *LedgerAuditService) Stop() {
	s.queue.Stop()
}

// EnqueueSubject schedules an asynchronous audit for one subject.
func (s *LedgerAuditService) EnqueueSubject(subjectID string) {
	job := jobs.Job{ID: uuid.NewString(), Type: "audit-subject", Payload: subjectID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("audit enqueue failed", zap.String("subject_id", subjectID), zap.Error(err))
	}
}

func (s *LedgerAuditService) handleJob(ctx context.Context, job jobs.Job) error {
	subjectID, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("audit job with invalid payload", zap.String("job_id", job.ID))
		return nil
	}
	_, err := s.AuditSubject(ctx, subjectID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			// Subject deleted between mutation and audit.
			return nil
		}
	}
	return err
}

// AuditSubject recomputes one subject's counters from its event history
// using the same status-effect table the mutator applies, and repairs the
// stored aggregate when it drifted.
func (s *LedgerAuditService) AuditSubject(ctx context.Context, subjectID string) (*AuditReport, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	events, err := s.events.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	var computed models.CounterDelta
	for _, event := range events {
		computed = computed.Add(event.Status.Effect())
	}

	report := &AuditReport{
		SubjectID:        subjectID,
		StoredAttended:   subject.Attended,
		StoredTotal:      subject.Total,
		ComputedAttended: computed.Attended,
		ComputedTotal:    computed.Total,
	}
	if computed.Attended == subject.Attended && computed.Total == subject.Total {
		return report, nil
	}

	report.Drift = true
	if s.metrics != nil {
		s.metrics.RecordAuditDrift()
	}
	s.logger.Warn("ledger drift detected",
		zap.String("subject_id", subjectID),
		zap.Int("stored_attended", subject.Attended),
		zap.Int("stored_total", subject.Total),
		zap.Int("computed_attended", computed.Attended),
		zap.Int("computed_total", computed.Total),
	)

	if err := s.subjects.SetCounters(ctx, subjectID, computed.Attended, computed.Total); err != nil {
		return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	report.Repaired = true
	return report, nil
}

// AuditOwnedSubject audits one subject after verifying it belongs to the
// owner. Ownership mismatches report not found.
func (s *LedgerAuditService) AuditOwnedSubject(ctx context.Context, owner, subjectID string) (*AuditReport, error) {
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
	return s.AuditSubject(ctx, subjectID)
}

// AuditOwner audits every subject the owner has, synchronously.
func (s *LedgerAuditService) AuditOwner(ctx context.Context, owner string) ([]AuditReport, error) {
	subjects, _, err := s.subjects.List(ctx, models.SubjectFilter{Owner: owner, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	reports := make([]AuditReport, 0, len(subjects))
	for _, subject := range subjects {
		report, err := s.AuditSubject(ctx, subject.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
