package dto

import "github.com/acadhub/acadhub-api/internal/models"

// SaveScheduleRequest replaces the owner's weekly schedule for a semester.
type SaveScheduleRequest struct {
	Semester int            `json:"semester" validate:"required,min=1,max=8"`
	Schedule models.WeekMap `json:"schedule" validate:"required"`
}

// ClassesForDateResponse lists the reconciled slots for one calendar date.
type ClassesForDateResponse struct {
	Date    string              `json:"date"`
	Weekday models.Weekday      `json:"weekday"`
	Classes []models.ClassEntry `json:"classes"`
}
