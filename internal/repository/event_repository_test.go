package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/models"
)

func eventRows(events ...models.AttendanceEvent) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "subject_id", "owner", "date", "status", "note", "substituted_by", "created_at", "updated_at",
	})
	for _, e := range events {
		rows.AddRow(e.ID, e.SubjectID, e.Owner, e.Date, e.Status, e.Note, e.SubstitutedBy, time.Now(), time.Now())
	}
	return rows
}

func TestEventRepositoryInsertAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance_events")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.AttendanceEvent{
		SubjectID: "sub-1",
		Owner:     "user-1",
		Date:      "2026-03-02",
		Status:    models.StatusPresent,
	}
	require.NoError(t, repo.Insert(context.Background(), event))
	require.NotEmpty(t, event.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject_id, owner, date, status")).
		WithArgs(event.ID).
		WillReturnRows(eventRows(*event))

	found, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPresent, found.Status)
	require.Equal(t, "2026-03-02", found.Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListByOwnerAndDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject_id, owner, date, status")).
		WithArgs("user-1", "2026-03-02").
		WillReturnRows(eventRows(
			models.AttendanceEvent{ID: "ev-1", SubjectID: "sub-1", Owner: "user-1", Date: "2026-03-02", Status: models.StatusPresent},
			models.AttendanceEvent{ID: "ev-2", SubjectID: "sub-2", Owner: "user-1", Date: "2026-03-02", Status: models.StatusAbsent},
		))

	events, err := repo.ListByOwnerAndDate(context.Background(), "user-1", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "ev-1", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindLinked(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject_id, owner, date, status")).
		WithArgs("sub-2", "2026-03-02", models.StatusSubstitution).
		WillReturnRows(eventRows(models.AttendanceEvent{
			ID: "ev-9", SubjectID: "sub-2", Owner: "user-1", Date: "2026-03-02", Status: models.StatusSubstitution,
		}))

	linked, err := repo.FindLinked(context.Background(), "sub-2", "2026-03-02", models.StatusSubstitution)
	require.NoError(t, err)
	require.Equal(t, "ev-9", linked.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListPaginated(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "subject_id", "owner", "date", "status", "note", "substituted_by",
		"created_at", "updated_at", "subject_name", "subject_code",
	}).AddRow("ev-1", "sub-1", "user-1", "2026-03-02", "present", nil, nil, time.Now(), time.Now(), "OS", "CS-301")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT e.id, e.subject_id, e.owner, e.date, e.status")).
		WithArgs("user-1", "sub-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.EventFilter{Owner: "user-1", SubjectID: "sub-1"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, records, 1)
	require.Equal(t, "OS", records[0].SubjectName)
	require.NoError(t, mock.ExpectationsWereMet())
}
