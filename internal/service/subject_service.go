package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type subjectRepo interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	OverviewBySemester(ctx context.Context, owner string) ([]dto.SemesterOverviewEntry, error)
}

// SubjectService manages subject enrollment, metadata and the practical and
// assignment progress counters that ride alongside attendance.
type SubjectService struct {
	subjects  subjectRepo
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs SubjectService.
func NewSubjectService(subjects subjectRepo, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// List returns the owner's subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	if filter.Semester != nil && (*filter.Semester < 1 || *filter.Semester > 8) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}
	subjects, total, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one owned subject.
func (s *SubjectService) Get(ctx context.Context, owner, id string) (*models.Subject, error) {
	return s.owned(ctx, owner, id)
}

// Create enrolls a new subject with zeroed counters.
func (s *SubjectService) Create(ctx context.Context, owner string, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	subject := &models.Subject{
		Owner:      owner,
		Semester:   req.Semester,
		Name:       req.Name,
		Code:       req.Code,
		Categories: pq.StringArray(req.Categories),
		Professor:  req.Professor,
		Classroom:  req.Classroom,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	s.logger.Info("subject created",
		zap.String("owner", owner),
		zap.String("subject_id", subject.ID),
		zap.String("code", subject.Code),
	)
	return subject, nil
}

// Update modifies subject metadata.
func (s *SubjectService) Update(ctx context.Context, owner, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	subject, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if req.Semester != nil {
		subject.Semester = *req.Semester
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Code != nil {
		subject.Code = *req.Code
	}
	if req.Categories != nil {
		subject.Categories = pq.StringArray(req.Categories)
	}
	if req.Professor != nil {
		subject.Professor = req.Professor
	}
	if req.Classroom != nil {
		subject.Classroom = req.Classroom
	}

	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	s.invalidate(ctx, owner)
	return subject, nil
}

// UpdateProgress adjusts practical or assignment completion counters.
func (s *SubjectService) UpdateProgress(ctx context.Context, owner, id string, req dto.UpdateProgressRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	subject, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case "practicals":
		if req.Total != nil {
			subject.PracticalsTotal = *req.Total
		}
		if req.Completed != nil {
			subject.PracticalsCompleted = *req.Completed
		}
		if req.Hardcopy != nil {
			subject.PracticalsHardcopy = *req.Hardcopy
		}
		if subject.PracticalsCompleted > subject.PracticalsTotal {
			return nil, appErrors.Clone(appErrors.ErrValidation, "completed cannot exceed total")
		}
	case "assignments":
		if req.Total != nil {
			subject.AssignmentsTotal = *req.Total
		}
		if req.Completed != nil {
			subject.AssignmentsCompleted = *req.Completed
		}
		if req.Hardcopy != nil {
			subject.AssignmentsHardcopy = *req.Hardcopy
		}
		if subject.AssignmentsCompleted > subject.AssignmentsTotal {
			return nil, appErrors.Clone(appErrors.ErrValidation, "completed cannot exceed total")
		}
	}

	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return subject, nil
}

// Delete removes a subject and cascades to its attendance events.
func (s *SubjectService) Delete(ctx context.Context, owner, id string) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	s.invalidate(ctx, owner)
	s.logger.Info("subject deleted", zap.String("owner", owner), zap.String("subject_id", id))
	return nil
}

// Overview aggregates attendance percentages across every semester.
func (s *SubjectService) Overview(ctx context.Context, owner string) (*dto.SemesterOverviewResponse, error) {
	entries, err := s.subjects.OverviewBySemester(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	for i := range entries {
		entries[i].Percentage = AttendancePercent(entries[i].Attended, entries[i].Total)
	}
	return &dto.SemesterOverviewResponse{Semesters: entries}, nil
}

func (s *SubjectService) owned(ctx context.Context, owner, id string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
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

func (s *SubjectService) invalidate(ctx context.Context, owner string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:%s:*", owner))
	}
}
