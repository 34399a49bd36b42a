package dto

import "github.com/acadhub/acadhub-api/internal/models"

// MarkEventRequest is the payload for logging an attendance event.
type MarkEventRequest struct {
	SubjectID    string             `json:"subject_id" validate:"required,uuid4"`
	Status       models.EventStatus `json:"status" validate:"required"`
	Date         string             `json:"date" validate:"required,datetime=2006-01-02"`
	Note         *string            `json:"note,omitempty"`
	SubstituteID *string            `json:"substitute_id,omitempty" validate:"omitempty,uuid4"`
}

// EditEventRequest updates fields of an existing event. Nil fields are left
// untouched.
type EditEventRequest struct {
	Status *models.EventStatus `json:"status,omitempty"`
	Date   *string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note   *string             `json:"note,omitempty"`
}

// EventListRequest captures query parameters for listing events.
type EventListRequest struct {
	SubjectID string `form:"subject_id"`
	Date      string `form:"date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// StreakResponse reports the current perfect-attendance run.
type StreakResponse struct {
	Streak int `json:"streak"`
}
