package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
)

type fakeResultRepo struct {
	bySemester map[int]*models.SemesterResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{bySemester: make(map[int]*models.SemesterResult)}
}

func (f *fakeResultRepo) Upsert(_ context.Context, result *models.SemesterResult) error {
	stored := *result
	f.bySemester[result.Semester] = &stored
	return nil
}

func (f *fakeResultRepo) Get(_ context.Context, _ string, semester int) (*models.SemesterResult, error) {
	result, ok := f.bySemester[semester]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *result
	return &copied, nil
}

func (f *fakeResultRepo) ListByOwner(_ context.Context, _ string) ([]models.SemesterResult, error) {
	results := make([]models.SemesterResult, 0, len(f.bySemester))
	for sem := 1; sem <= 8; sem++ {
		if result, ok := f.bySemester[sem]; ok {
			results = append(results, *result)
		}
	}
	return results, nil
}

func (f *fakeResultRepo) Delete(_ context.Context, _ string, semester int) error {
	delete(f.bySemester, semester)
	return nil
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		percentage float64
		grade      models.Grade
		points     int
	}{
		{95, models.GradeO, 10},
		{90, models.GradeO, 10},
		{89.9, models.GradeAPlus, 9},
		{75, models.GradeAPlus, 9},
		{65, models.GradeA, 8},
		{55, models.GradeBPlus, 7},
		{50, models.GradeB, 6},
		{45, models.GradeC, 5},
		{40, models.GradeP, 4},
		{39.9, models.GradeF, 0},
		{0, models.GradeF, 0},
	}
	for _, tc := range cases {
		grade := models.GradeFor(tc.percentage)
		require.Equal(t, tc.grade, grade, "percentage %.1f", tc.percentage)
		require.Equal(t, tc.points, grade.Points(), "percentage %.1f", tc.percentage)
	}
}

func TestSubjectResultOfByType(t *testing.T) {
	theory, err := SubjectResultOf(dto.SubjectResultInput{
		Name: "Algorithms", Code: "CS201", Credits: 4, Type: models.SubjectTheory,
		Marks: models.SubjectMarks{InternalTheory: 22, ExternalTheory: 56, InternalPractical: 40},
	})
	require.NoError(t, err)
	require.Equal(t, 78.0, theory.TotalMarks)
	require.Equal(t, models.GradeAPlus, theory.Grade)

	practical, err := SubjectResultOf(dto.SubjectResultInput{
		Name: "Algorithms Lab", Code: "CS251", Credits: 1, Type: models.SubjectPractical,
		Marks: models.SubjectMarks{InternalTheory: 90, InternalPractical: 38, ExternalPractical: 55},
	})
	require.NoError(t, err)
	require.Equal(t, 93.0, practical.TotalMarks)
	require.Equal(t, models.GradeO, practical.Grade)

	nues, err := SubjectResultOf(dto.SubjectResultInput{
		Name: "Seminar", Code: "HS101", Credits: 1, Type: models.SubjectNUES,
		Marks: models.SubjectMarks{InternalTheory: 64, ExternalTheory: 30},
	})
	require.NoError(t, err)
	require.Equal(t, 64.0, nues.TotalMarks)
	require.Equal(t, models.GradeB, nues.Grade)

	_, err = SubjectResultOf(dto.SubjectResultInput{Type: "elective"})
	require.Error(t, err)
}

func TestSGPAWeighting(t *testing.T) {
	subjects := []models.SubjectResult{
		{Grade: models.GradeAPlus, GradePoint: 9, Credits: 4},
		{Grade: models.GradeB, GradePoint: 6, Credits: 2},
	}
	require.Equal(t, 8.0, SGPA(subjects))
	require.Equal(t, 0.0, SGPA(nil))
}

func TestCGPAIsCreditWeightedAcrossSemesters(t *testing.T) {
	results := []models.SemesterResult{
		{Semester: 1, Subjects: models.SubjectResultList{{GradePoint: 9, Credits: 4}}},
		{Semester: 2, Subjects: models.SubjectResultList{{GradePoint: 6, Credits: 6}}},
	}
	// (9*4 + 6*6) / 10, not the 7.5 an SGPA average would give.
	require.Equal(t, 7.2, CGPA(results))
}

func TestSaveSemesterResultComputesGPA(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewGradeService(repo, nil, nil)

	first, err := svc.SaveSemesterResult(context.Background(), "u1", dto.SaveSemesterResultRequest{
		Semester: 1,
		Subjects: []dto.SubjectResultInput{
			{Name: "Maths", Code: "MA101", Credits: 4, Type: models.SubjectTheory,
				Marks: models.SubjectMarks{InternalTheory: 25, ExternalTheory: 55}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 9.0, first.SGPA)
	require.Equal(t, 9.0, first.CGPA)
	require.Equal(t, 4, first.TotalCredits)

	second, err := svc.SaveSemesterResult(context.Background(), "u1", dto.SaveSemesterResultRequest{
		Semester: 2,
		Subjects: []dto.SubjectResultInput{
			{Name: "Physics", Code: "PH101", Credits: 6, Type: models.SubjectTheory,
				Marks: models.SubjectMarks{InternalTheory: 20, ExternalTheory: 32}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 6.0, second.SGPA)
	require.Equal(t, 7.2, second.CGPA)
}

func TestGetResultAttachesCGPA(t *testing.T) {
	repo := newFakeResultRepo()
	svc := NewGradeService(repo, nil, nil)

	_, err := svc.SaveSemesterResult(context.Background(), "u1", dto.SaveSemesterResultRequest{
		Semester: 1,
		Subjects: []dto.SubjectResultInput{
			{Name: "Maths", Code: "MA101", Credits: 4, Type: models.SubjectTheory,
				Marks: models.SubjectMarks{InternalTheory: 25, ExternalTheory: 55}},
		},
	})
	require.NoError(t, err)

	result, err := svc.GetResult(context.Background(), "u1", 1)
	require.NoError(t, err)
	require.Equal(t, 9.0, result.CGPA)

	_, err = svc.GetResult(context.Background(), "u1", 3)
	require.Error(t, err)

	_, err = svc.GetResult(context.Background(), "u1", 0)
	require.Error(t, err)
}
