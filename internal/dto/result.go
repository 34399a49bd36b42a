package dto

import "github.com/acadhub/acadhub-api/internal/models"

// SubjectResultInput is one subject's raw grading input.
type SubjectResultInput struct {
	Name    string              `json:"name" validate:"required"`
	Code    string              `json:"code" validate:"required"`
	Credits int                 `json:"credits" validate:"min=0"`
	Type    models.SubjectType  `json:"type" validate:"required"`
	Marks   models.SubjectMarks `json:"marks"`
}

// SaveSemesterResultRequest upserts the grade record for one semester.
type SaveSemesterResultRequest struct {
	Semester int                  `json:"semester" validate:"required,min=1,max=8"`
	Subjects []SubjectResultInput `json:"subjects" validate:"required,min=1,dive"`
}
