package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/models"
	"github.com/acadhub/acadhub-api/pkg/jobs"
)

type fakeAuditSubjects struct {
	subjects map[string]*models.Subject
	repaired map[string][2]int
}

func newFakeAuditSubjects(subjects ...*models.Subject) *fakeAuditSubjects {
	store := &fakeAuditSubjects{
		subjects: make(map[string]*models.Subject),
		repaired: make(map[string][2]int),
	}
	for _, subject := range subjects {
		store.subjects[subject.ID] = subject
	}
	return store
}

func (f *fakeAuditSubjects) FindByID(_ context.Context, id string) (*models.Subject, error) {
	subject, ok := f.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *subject
	return &copied, nil
}

func (f *fakeAuditSubjects) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	subjects := make([]models.Subject, 0, len(f.subjects))
	for _, subject := range f.subjects {
		if subject.Owner == filter.Owner {
			subjects = append(subjects, *subject)
		}
	}
	return subjects, len(subjects), nil
}

func (f *fakeAuditSubjects) SetCounters(_ context.Context, id string, attended, total int) error {
	subject, ok := f.subjects[id]
	if !ok {
		return sql.ErrNoRows
	}
	subject.Attended, subject.Total = attended, total
	f.repaired[id] = [2]int{attended, total}
	return nil
}

type fakeAuditEvents struct {
	bySubject map[string][]models.AttendanceEvent
}

func (f *fakeAuditEvents) ListBySubject(_ context.Context, subjectID string) ([]models.AttendanceEvent, error) {
	return f.bySubject[subjectID], nil
}

func auditEventsFor(subjectID string, statuses ...models.EventStatus) *fakeAuditEvents {
	events := make([]models.AttendanceEvent, 0, len(statuses))
	for _, status := range statuses {
		events = append(events, models.AttendanceEvent{SubjectID: subjectID, Status: status})
	}
	return &fakeAuditEvents{bySubject: map[string][]models.AttendanceEvent{subjectID: events}}
}

func TestAuditSubjectRepairsDrift(t *testing.T) {
	subjects := newFakeAuditSubjects(&models.Subject{ID: "sub-1", Owner: "u1", Attended: 5, Total: 10})
	events := auditEventsFor("sub-1",
		models.StatusPresent, models.StatusPresent, models.StatusLate, models.StatusAbsent)
	svc := NewLedgerAuditService(subjects, events, nil, nil, jobs.QueueConfig{})

	report, err := svc.AuditSubject(context.Background(), "sub-1")
	require.NoError(t, err)
	require.True(t, report.Drift)
	require.True(t, report.Repaired)
	require.Equal(t, 5, report.StoredAttended)
	require.Equal(t, 10, report.StoredTotal)
	require.Equal(t, 3, report.ComputedAttended)
	require.Equal(t, 4, report.ComputedTotal)
	require.Equal(t, [2]int{3, 4}, subjects.repaired["sub-1"])
}

func TestAuditSubjectCleanLedger(t *testing.T) {
	subjects := newFakeAuditSubjects(&models.Subject{ID: "sub-1", Owner: "u1", Attended: 2, Total: 3})
	events := auditEventsFor("sub-1",
		models.StatusPresent, models.StatusApprovedMedical, models.StatusPendingMedical,
		models.StatusCancelled, models.StatusSubstituted)
	svc := NewLedgerAuditService(subjects, events, nil, nil, jobs.QueueConfig{})

	report, err := svc.AuditSubject(context.Background(), "sub-1")
	require.NoError(t, err)
	require.False(t, report.Drift)
	require.False(t, report.Repaired)
	require.Empty(t, subjects.repaired)
}

func TestAuditSubjectCountsSubstitutionCredit(t *testing.T) {
	subjects := newFakeAuditSubjects(&models.Subject{ID: "sub-2", Owner: "u1", Attended: 1, Total: 1})
	events := auditEventsFor("sub-2", models.StatusSubstitution)
	svc := NewLedgerAuditService(subjects, events, nil, nil, jobs.QueueConfig{})

	report, err := svc.AuditSubject(context.Background(), "sub-2")
	require.NoError(t, err)
	require.False(t, report.Drift)
}

func TestAuditOwnerCoversAllSubjects(t *testing.T) {
	subjects := newFakeAuditSubjects(
		&models.Subject{ID: "sub-1", Owner: "u1", Attended: 1, Total: 1},
		&models.Subject{ID: "sub-2", Owner: "u1", Attended: 9, Total: 9},
		&models.Subject{ID: "other", Owner: "u2"},
	)
	events := &fakeAuditEvents{bySubject: map[string][]models.AttendanceEvent{
		"sub-1": {{SubjectID: "sub-1", Status: models.StatusPresent}},
	}}
	svc := NewLedgerAuditService(subjects, events, nil, nil, jobs.QueueConfig{})

	reports, err := svc.AuditOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, [2]int{0, 0}, subjects.repaired["sub-2"])
}

func TestAuditOwnedSubjectScoping(t *testing.T) {
	subjects := newFakeAuditSubjects(&models.Subject{ID: "sub-1", Owner: "u1"})
	svc := NewLedgerAuditService(subjects, &fakeAuditEvents{}, nil, nil, jobs.QueueConfig{})

	_, err := svc.AuditOwnedSubject(context.Background(), "intruder", "sub-1")
	require.Error(t, err)

	report, err := svc.AuditOwnedSubject(context.Background(), "u1", "sub-1")
	require.NoError(t, err)
	require.False(t, report.Drift)
}

func TestAuditSubjectMissing(t *testing.T) {
	svc := NewLedgerAuditService(newFakeAuditSubjects(), &fakeAuditEvents{}, nil, nil, jobs.QueueConfig{})
	_, err := svc.AuditSubject(context.Background(), "ghost")
	require.Error(t, err)
}
