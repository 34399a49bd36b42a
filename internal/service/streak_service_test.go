package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/models"
)

type fakeEventHistory struct {
	events []models.AttendanceEvent
}

func (f *fakeEventHistory) ListSince(_ context.Context, _, _ string) ([]models.AttendanceEvent, error) {
	return f.events, nil
}

type fakeHolidayReader struct {
	holidays []models.Holiday
}

func (f *fakeHolidayReader) ListByOwner(_ context.Context, _ string) ([]models.Holiday, error) {
	return f.holidays, nil
}

func newStreakFixture(events []models.AttendanceEvent, holidays []models.Holiday, today time.Time) *StreakService {
	svc := NewStreakService(&fakeEventHistory{events: events}, &fakeHolidayReader{holidays: holidays}, 366, nil)
	svc.now = func() time.Time { return today }
	return svc
}

func dayEvent(date string, status models.EventStatus) models.AttendanceEvent {
	return models.AttendanceEvent{ID: date + string(status), Owner: "u1", Date: date, Status: status}
}

// 2026-03-11 is a Wednesday.
var streakToday = time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)

func TestStreakSkipsHolidaysAndWeekends(t *testing.T) {
	events := []models.AttendanceEvent{
		dayEvent("2026-03-11", models.StatusPresent),
		// 2026-03-10 is a registered holiday, no events.
		dayEvent("2026-03-09", models.StatusPresent),
		dayEvent("2026-03-09", models.StatusLate),
		// 2026-03-07 and 2026-03-08 are a weekend, no events.
		dayEvent("2026-03-06", models.StatusPresent),
		dayEvent("2026-03-05", models.StatusAbsent),
	}
	holidays := []models.Holiday{{Owner: "u1", Date: "2026-03-10", Label: "Festival"}}

	svc := newStreakFixture(events, holidays, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 3, streak)
}

func TestStreakBrokenByAbsenceToday(t *testing.T) {
	events := []models.AttendanceEvent{
		dayEvent("2026-03-11", models.StatusPresent),
		dayEvent("2026-03-11", models.StatusAbsent),
	}
	svc := newStreakFixture(events, nil, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 0, streak)
}

func TestStreakBrokenByPendingMedical(t *testing.T) {
	events := []models.AttendanceEvent{
		dayEvent("2026-03-11", models.StatusPresent),
		dayEvent("2026-03-10", models.StatusPendingMedical),
	}
	svc := newStreakFixture(events, nil, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 1, streak)
}

func TestStreakBrokenByUnloggedWeekday(t *testing.T) {
	events := []models.AttendanceEvent{
		dayEvent("2026-03-11", models.StatusPresent),
		// 2026-03-10 is a Tuesday with nothing logged and no holiday.
		dayEvent("2026-03-09", models.StatusPresent),
	}
	svc := newStreakFixture(events, nil, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 1, streak)
}

func TestStreakApprovedMedicalKeepsRun(t *testing.T) {
	events := []models.AttendanceEvent{
		dayEvent("2026-03-11", models.StatusApprovedMedical),
		dayEvent("2026-03-10", models.StatusPresent),
	}
	svc := newStreakFixture(events, nil, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 2, streak)
}

func TestStreakEmptyHistory(t *testing.T) {
	svc := newStreakFixture(nil, nil, streakToday)
	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 0, streak)
}
