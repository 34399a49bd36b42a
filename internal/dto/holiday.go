package dto

// AddHolidayRequest registers a date the streak walk should skip.
type AddHolidayRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Label string `json:"label" validate:"required"`
}
