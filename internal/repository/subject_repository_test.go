package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func subjectRows(s models.Subject) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner", "semester", "name", "code", "categories", "professor", "classroom",
		"attended", "total", "practicals_total", "practicals_completed", "practicals_hardcopy",
		"assignments_total", "assignments_completed", "assignments_hardcopy", "created_at", "updated_at",
	}).AddRow(
		s.ID, s.Owner, s.Semester, s.Name, s.Code, "{theory}", nil, nil,
		s.Attended, s.Total, 0, 0, false, 0, 0, false, time.Now(), time.Now(),
	)
}

func TestSubjectRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	subject := &models.Subject{
		Owner:      "user-1",
		Semester:   3,
		Name:       "Operating Systems",
		Code:       "CS-301",
		Categories: pq.StringArray{"theory"},
	}
	require.NoError(t, repo.Create(context.Background(), subject))
	require.NotEmpty(t, subject.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner, semester, name, code")).
		WithArgs(subject.ID).
		WillReturnRows(subjectRows(models.Subject{ID: subject.ID, Owner: "user-1", Semester: 3, Name: "Operating Systems", Code: "CS-301", Attended: 0, Total: 0}))

	found, err := repo.FindByID(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Equal(t, subject.ID, found.ID)
	require.True(t, found.HasCategory(models.CategoryTheory))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner, semester, name, code")).
		WithArgs("user-1", 3).
		WillReturnRows(subjectRows(models.Subject{ID: "sub-1", Owner: "user-1", Semester: 3, Name: "OS", Code: "CS-301", Attended: 10, Total: 12}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	semester := 3
	subjects, total, err := repo.List(context.Background(), models.SubjectFilter{Owner: "user-1", Semester: &semester})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, subjects, 1)
	require.Equal(t, 10, subjects[0].Attended)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryApplyCounterDelta(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects")).
		WithArgs(1, 1, sqlmock.AnyArg(), "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ApplyCounterDelta(context.Background(), "sub-1", models.CounterDelta{Attended: 1, Total: 1}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryApplyCounterDeltaGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects")).
		WithArgs(-1, -1, sqlmock.AnyArg(), "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ApplyCounterDelta(context.Background(), "sub-1", models.CounterDelta{Attended: -1, Total: -1})
	require.ErrorIs(t, err, ErrCounterGuard)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryApplyCounterDeltaZeroIsNoop(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	require.NoError(t, repo.ApplyCounterDelta(context.Background(), "sub-1", models.CounterDelta{}))
}

func TestSubjectRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_events WHERE subject_id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "sub-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryOverviewBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	rows := sqlmock.NewRows([]string{"semester", "subjects", "attended", "total"}).
		AddRow(1, 5, 40, 50).
		AddRow(2, 4, 30, 45)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT semester, COUNT(*)")).
		WithArgs("user-1").
		WillReturnRows(rows)

	entries, err := repo.OverviewBySemester(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 40, entries[0].Attended)
	require.Equal(t, 45, entries[1].Total)
	require.NoError(t, mock.ExpectationsWereMet())
}
