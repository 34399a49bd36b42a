package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type resultRepo interface {
	Upsert(ctx context.Context, result *models.SemesterResult) error
	Get(ctx context.Context, owner string, semester int) (*models.SemesterResult, error)
	ListByOwner(ctx context.Context, owner string) ([]models.SemesterResult, error)
	Delete(ctx context.Context, owner string, semester int) error
}

// GradeService computes subject results, semester GPA and the cumulative
// GPA across every stored semester.
type GradeService struct {
	results   resultRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(results resultRepo, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{results: results, validator: validate, logger: logger}
}

// SubjectResultOf derives the graded record for one subject from its raw
// mark components. The components that count depend on the subject type;
// every type grades out of 100.
func SubjectResultOf(input dto.SubjectResultInput) (models.SubjectResult, error) {
	if !input.Type.Valid() {
		return models.SubjectResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown subject type: " + string(input.Type))
	}

	var total float64
	switch input.Type {
	case models.SubjectTheory:
		total = input.Marks.InternalTheory + input.Marks.ExternalTheory
	case models.SubjectPractical:
		total = input.Marks.InternalPractical + input.Marks.ExternalPractical
	case models.SubjectNUES:
		total = input.Marks.InternalTheory
	}

	const maxMarks = 100.0
	percentage := total / maxMarks * 100
	grade := models.GradeFor(percentage)

	return models.SubjectResult{
		Name:       input.Name,
		Code:       input.Code,
		Credits:    input.Credits,
		Type:       input.Type,
		Marks:      input.Marks,
		TotalMarks: total,
		MaxMarks:   maxMarks,
		Percentage: math.Round(percentage*100) / 100,
		Grade:      grade,
		GradePoint: grade.Points(),
	}, nil
}

// SGPA is the credit-weighted grade-point average for one semester,
// rounded to two decimal places. Zero total credits yields zero.
func SGPA(subjects []models.SubjectResult) float64 {
	var weighted, credits int
	for _, s := range subjects {
		weighted += s.GradePoint * s.Credits
		credits += s.Credits
	}
	if credits == 0 {
		return 0
	}
	return math.Round(float64(weighted)/float64(credits)*100) / 100
}

// CGPA is a flat credit-weighted sum over every subject of every semester.
// Averaging per-semester SGPAs would weight a 1-credit semester the same as
// a 20-credit one, so it is never computed that way.
func CGPA(results []models.SemesterResult) float64 {
	var weighted, credits int
	for _, r := range results {
		for _, s := range r.Subjects {
			weighted += s.GradePoint * s.Credits
			credits += s.Credits
		}
	}
	if credits == 0 {
		return 0
	}
	return math.Round(float64(weighted)/float64(credits)*100) / 100
}

// SaveSemesterResult grades the submitted subjects, stores the semester
// record and returns it with a fresh cumulative GPA attached.
func (s *GradeService) SaveSemesterResult(ctx context.Context, owner string, req dto.SaveSemesterResultRequest) (*models.SemesterResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	subjects := make(models.SubjectResultList, 0, len(req.Subjects))
	totalCredits := 0
	for _, input := range req.Subjects {
		graded, err := SubjectResultOf(input)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, graded)
		totalCredits += graded.Credits
	}

	result := &models.SemesterResult{
		Owner:        owner,
		Semester:     req.Semester,
		Subjects:     subjects,
		TotalCredits: totalCredits,
		SGPA:         SGPA(subjects),
	}
	if err := s.results.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	all, err := s.results.ListByOwner(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	result.CGPA = CGPA(all)

	s.logger.Info("semester result saved",
		zap.String("owner", owner),
		zap.Int("semester", req.Semester),
		zap.Float64("sgpa", result.SGPA),
	)
	return result, nil
}

// ListResults returns every stored semester with the cumulative GPA
// attached to each record.
func (s *GradeService) ListResults(ctx context.Context, owner string) ([]models.SemesterResult, error) {
	results, err := s.results.ListByOwner(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	cgpa := CGPA(results)
	for i := range results {
		results[i].CGPA = cgpa
	}
	return results, nil
}

// GetResult returns one semester's record with the cumulative GPA attached.
func (s *GradeService) GetResult(ctx context.Context, owner string, semester int) (*models.SemesterResult, error) {
	if semester < 1 || semester > 8 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}
	result, err := s.results.Get(ctx, owner, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	all, err := s.results.ListByOwner(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	result.CGPA = CGPA(all)
	return result, nil
}

// DeleteResult removes one semester's record.
func (s *GradeService) DeleteResult(ctx context.Context, owner string, semester int) error {
	if semester < 1 || semester > 8 {
		return appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}
	if err := s.results.Delete(ctx, owner, semester); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return nil
}
