package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
)

type fakeScheduleStore struct {
	record          *models.ScheduleRecord
	upserted        *models.WeeklySchedule
	migratedRaw     []byte
	migratedVersion int
}

func (f *fakeScheduleStore) Get(_ context.Context, _ string, _ int) (*models.ScheduleRecord, error) {
	if f.record == nil {
		return nil, sql.ErrNoRows
	}
	return f.record, nil
}

func (f *fakeScheduleStore) Upsert(_ context.Context, schedule *models.WeeklySchedule) error {
	f.upserted = schedule
	return nil
}

func (f *fakeScheduleStore) SaveMigrated(_ context.Context, _ string, schedule []byte, version int) error {
	f.migratedRaw = schedule
	f.migratedVersion = version
	return nil
}

type fakeSubjectLister struct {
	subjects []models.Subject
}

func (f *fakeSubjectLister) List(_ context.Context, _ models.SubjectFilter) ([]models.Subject, int, error) {
	return f.subjects, len(f.subjects), nil
}

type fakeDayEvents struct {
	events []models.AttendanceEvent
}

func (f *fakeDayEvents) ListByOwnerAndDate(_ context.Context, _, _ string) ([]models.AttendanceEvent, error) {
	return f.events, nil
}

func labSlot(start, end, subjectID string) models.ScheduleSlot {
	return models.ScheduleSlot{Start: start, End: end, SubjectID: subjectID, Type: models.SlotLab}
}

func lectureSlot(start, end, subjectID string) models.ScheduleSlot {
	return models.ScheduleSlot{Start: start, End: end, SubjectID: subjectID, Type: models.SlotLecture}
}

func TestReconcileSingleEventCoversBlock(t *testing.T) {
	slots := []models.ScheduleSlot{
		labSlot("09:00", "10:00", "lab-1"),
		labSlot("10:00", "11:00", "lab-1"),
	}
	events := []models.AttendanceEvent{
		{ID: "e1", SubjectID: "lab-1", Status: models.StatusPresent},
	}

	entries := reconcileSlots(slots, events, map[string]string{"lab-1": "Physics Lab"})
	require.Len(t, entries, 2)
	require.Equal(t, models.StatusPresent, entries[0].Status)
	require.Equal(t, models.StatusPresent, entries[1].Status)
	require.Equal(t, "e1", *entries[0].EventID)
	require.Equal(t, "e1", *entries[1].EventID)
}

func TestReconcilePerPeriodEventsAssignChronologically(t *testing.T) {
	slots := []models.ScheduleSlot{
		labSlot("09:00", "10:00", "lab-1"),
		labSlot("10:00", "11:00", "lab-1"),
	}
	events := []models.AttendanceEvent{
		{ID: "e1", SubjectID: "lab-1", Status: models.StatusPresent},
		{ID: "e2", SubjectID: "lab-1", Status: models.StatusAbsent},
	}

	entries := reconcileSlots(slots, events, nil)
	require.Len(t, entries, 2)
	require.Equal(t, models.StatusPresent, entries[0].Status)
	require.Equal(t, models.StatusAbsent, entries[1].Status)
}

func TestReconcileUnloggedSlotsStayPending(t *testing.T) {
	slots := []models.ScheduleSlot{
		lectureSlot("09:00", "10:00", "sub-1"),
		lectureSlot("11:00", "12:00", "sub-2"),
		{Start: "10:00", End: "11:00", Type: models.SlotBreak},
	}
	events := []models.AttendanceEvent{
		{ID: "e1", SubjectID: "sub-1", Status: models.StatusLate},
	}

	entries := reconcileSlots(slots, events, nil)
	require.Len(t, entries, 3)
	require.Equal(t, models.StatusLate, entries[0].Status)
	require.Equal(t, models.StatusPending, entries[1].Status)
	require.Nil(t, entries[1].EventID)
	require.Equal(t, models.StatusPending, entries[2].Status)
}

func TestReconcileBlockConsumesEventsGreedily(t *testing.T) {
	// A lab block followed by the same subject's lecture: two logged events
	// both land in the lab block and the lecture stays pending. Events are
	// only spread across a block when there are fewer events than slots.
	slots := []models.ScheduleSlot{
		labSlot("09:00", "10:00", "sub-1"),
		labSlot("10:00", "11:00", "sub-1"),
		lectureSlot("11:00", "12:00", "sub-1"),
	}
	events := []models.AttendanceEvent{
		{ID: "e1", SubjectID: "sub-1", Status: models.StatusPresent},
		{ID: "e2", SubjectID: "sub-1", Status: models.StatusAbsent},
	}

	entries := reconcileSlots(slots, events, nil)
	require.Equal(t, models.StatusPresent, entries[0].Status)
	require.Equal(t, models.StatusAbsent, entries[1].Status)
	require.Equal(t, models.StatusPending, entries[2].Status)
	require.Nil(t, entries[2].EventID)
}

func TestGetScheduleMigratesLegacyLayout(t *testing.T) {
	legacy := []byte(`{
		"09:00-10:00": {"monday": {"subject_id": "sub-1", "type": "lecture"}},
		"10:00-11:00": {"monday": {"subject_id": "sub-2", "type": "lab"}}
	}`)
	store := &fakeScheduleStore{record: &models.ScheduleRecord{
		ID:            "sched-1",
		Owner:         "u1",
		Semester:      3,
		Schedule:      legacy,
		SchemaVersion: models.ScheduleSchemaLegacy,
	}}
	svc := NewTimetableService(store, &fakeDayEvents{}, &fakeSubjectLister{}, nil, nil)

	schedule, err := svc.GetSchedule(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.Equal(t, models.ScheduleSchemaCurrent, schedule.SchemaVersion)

	monday := schedule.Schedule[models.Monday]
	require.Len(t, monday, 2)
	require.Equal(t, "sub-1", monday[0].SubjectID)
	require.Equal(t, "09:00", monday[0].Start)
	require.Equal(t, "10:00", monday[0].End)
	require.Equal(t, "sub-2", monday[1].SubjectID)

	// The migrated structure was written back in the current schema.
	require.Equal(t, models.ScheduleSchemaCurrent, store.migratedVersion)
	var persisted models.WeekMap
	require.NoError(t, json.Unmarshal(store.migratedRaw, &persisted))
	require.Len(t, persisted[models.Monday], 2)
}

func TestSaveScheduleValidation(t *testing.T) {
	svc := NewTimetableService(&fakeScheduleStore{}, &fakeDayEvents{}, &fakeSubjectLister{}, nil, nil)

	_, err := svc.SaveSchedule(context.Background(), "u1", dto.SaveScheduleRequest{
		Semester: 3,
		Schedule: models.WeekMap{"funday": {lectureSlot("09:00", "10:00", "sub-1")}},
	})
	require.Error(t, err)

	_, err = svc.SaveSchedule(context.Background(), "u1", dto.SaveScheduleRequest{
		Semester: 3,
		Schedule: models.WeekMap{models.Monday: {lectureSlot("9am", "10:00", "sub-1")}},
	})
	require.Error(t, err)

	_, err = svc.SaveSchedule(context.Background(), "u1", dto.SaveScheduleRequest{
		Semester: 3,
		Schedule: models.WeekMap{models.Monday: {lectureSlot("09:00", "10:00", "")}},
	})
	require.Error(t, err)
}

func TestSaveScheduleSortsSlots(t *testing.T) {
	store := &fakeScheduleStore{}
	svc := NewTimetableService(store, &fakeDayEvents{}, &fakeSubjectLister{}, nil, nil)

	schedule, err := svc.SaveSchedule(context.Background(), "u1", dto.SaveScheduleRequest{
		Semester: 3,
		Schedule: models.WeekMap{models.Monday: {
			lectureSlot("11:00", "12:00", "sub-2"),
			lectureSlot("09:00", "10:00", "sub-1"),
		}},
	})
	require.NoError(t, err)

	monday := schedule.Schedule[models.Monday]
	require.Equal(t, "09:00", monday[0].Start)
	require.Equal(t, "11:00", monday[1].Start)
	require.NotNil(t, store.upserted)
	require.Equal(t, models.ScheduleSchemaCurrent, store.upserted.SchemaVersion)
}

func TestReconcileByDate(t *testing.T) {
	week := models.WeekMap{models.Monday: {
		lectureSlot("09:00", "10:00", "sub-1"),
	}}
	raw, err := json.Marshal(week)
	require.NoError(t, err)

	store := &fakeScheduleStore{record: &models.ScheduleRecord{
		ID:            "sched-1",
		Owner:         "u1",
		Semester:      3,
		Schedule:      raw,
		SchemaVersion: models.ScheduleSchemaCurrent,
	}}
	events := &fakeDayEvents{events: []models.AttendanceEvent{
		{ID: "e1", SubjectID: "sub-1", Status: models.StatusPresent, Date: "2026-03-09"},
	}}
	subjects := &fakeSubjectLister{subjects: []models.Subject{{ID: "sub-1", Name: "Maths"}}}
	svc := NewTimetableService(store, events, subjects, nil, nil)

	// 2026-03-09 is a Monday.
	result, err := svc.Reconcile(context.Background(), "u1", 3, "2026-03-09")
	require.NoError(t, err)
	require.Equal(t, models.Monday, result.Weekday)
	require.Len(t, result.Classes, 1)
	require.Equal(t, models.StatusPresent, result.Classes[0].Status)
	require.Equal(t, "Maths", result.Classes[0].SubjectName)

	_, err = svc.Reconcile(context.Background(), "u1", 3, "garbage")
	require.Error(t, err)
}
