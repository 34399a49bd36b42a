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

func TestResultRepositoryUpsertAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_results")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.SemesterResult{
		Owner:    "user-1",
		Semester: 4,
		Subjects: models.SubjectResultList{
			{Name: "Algorithms", Code: "CS-402", Credits: 4, Type: models.SubjectTheory, Grade: models.GradeAPlus, GradePoint: 9},
		},
		TotalCredits: 4,
		SGPA:         9,
	}
	require.NoError(t, repo.Upsert(context.Background(), result))
	require.NotEmpty(t, result.ID)

	rows := sqlmock.NewRows([]string{"id", "owner", "semester", "subjects", "total_credits", "sgpa", "created_at", "updated_at"}).
		AddRow(result.ID, "user-1", 4, `[{"name":"Algorithms","code":"CS-402","credits":4,"type":"theory","marks":{"internal_theory":0,"external_theory":0,"internal_practical":0,"external_practical":0},"total_marks":0,"max_marks":100,"percentage":0,"grade":"A+","grade_point":9}]`, 4, 9.0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner, semester, subjects")).
		WithArgs("user-1", 4).
		WillReturnRows(rows)

	found, err := repo.Get(context.Background(), "user-1", 4)
	require.NoError(t, err)
	require.Equal(t, 4, found.Semester)
	require.Len(t, found.Subjects, 1)
	require.Equal(t, models.GradeAPlus, found.Subjects[0].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	rows := sqlmock.NewRows([]string{"id", "owner", "semester", "subjects", "total_credits", "sgpa", "created_at", "updated_at"}).
		AddRow("res-1", "user-1", 1, `[]`, 20, 8.5, time.Now(), time.Now()).
		AddRow("res-2", "user-1", 2, `[]`, 22, 7.9, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner, semester, subjects")).
		WithArgs("user-1").
		WillReturnRows(rows)

	results, err := repo.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 8.5, results[0].SGPA)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM semester_results")).
		WithArgs("user-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "user-1", 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
