package dto

// BunkGuardReport is the safe-skip / must-attend projection for one subject.
type BunkGuardReport struct {
	Percentage float64 `json:"percentage"`
	CanSkip    bool    `json:"can_skip"`
	Count      int     `json:"count"`
	Message    string  `json:"message"`
}

// SubjectDashboard pairs a subject's counters with its projection.
type SubjectDashboard struct {
	SubjectID  string          `json:"subject_id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	Attended   int             `json:"attended"`
	Total      int             `json:"total"`
	Projection BunkGuardReport `json:"projection"`
}

// DashboardResponse is the per-semester attendance overview.
type DashboardResponse struct {
	Semester          int                `json:"semester"`
	TargetPercent     int                `json:"target_percent"`
	OverallPercentage float64            `json:"overall_percentage"`
	Subjects          []SubjectDashboard `json:"subjects"`
}

// SemesterOverviewEntry aggregates attendance for one semester.
type SemesterOverviewEntry struct {
	Semester   int     `json:"semester"`
	Subjects   int     `json:"subjects"`
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SemesterOverviewResponse covers all semesters with stored subjects.
type SemesterOverviewResponse struct {
	Semesters []SemesterOverviewEntry `json:"semesters"`
}
