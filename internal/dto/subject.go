package dto

// CreateSubjectRequest is the payload for enrolling a new subject.
type CreateSubjectRequest struct {
	Semester   int      `json:"semester" validate:"required,min=1,max=8"`
	Name       string   `json:"name" validate:"required"`
	Code       string   `json:"code" validate:"required"`
	Categories []string `json:"categories" validate:"required,min=1,dive,oneof=theory practical assignment"`
	Professor  *string  `json:"professor,omitempty"`
	Classroom  *string  `json:"classroom,omitempty"`
}

// UpdateSubjectRequest updates subject metadata. Nil fields are left untouched.
type UpdateSubjectRequest struct {
	Semester   *int     `json:"semester,omitempty" validate:"omitempty,min=1,max=8"`
	Name       *string  `json:"name,omitempty"`
	Code       *string  `json:"code,omitempty"`
	Categories []string `json:"categories,omitempty" validate:"omitempty,min=1,dive,oneof=theory practical assignment"`
	Professor  *string  `json:"professor,omitempty"`
	Classroom  *string  `json:"classroom,omitempty"`
}

// UpdateProgressRequest updates practical or assignment completion counters.
type UpdateProgressRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=practicals assignments"`
	Total     *int   `json:"total,omitempty" validate:"omitempty,min=0"`
	Completed *int   `json:"completed,omitempty" validate:"omitempty,min=0"`
	Hardcopy  *bool  `json:"hardcopy,omitempty"`
}
