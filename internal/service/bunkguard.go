package service

import (
	"fmt"
	"math"

	"github.com/acadhub/acadhub-api/internal/dto"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

// AttendancePercent returns the attendance percentage rounded to one
// decimal place. Zero total yields zero, not an error.
func AttendancePercent(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*1000) / 10
}

// BunkGuard projects how many upcoming classes can be skipped while staying
// at or above the target percentage, or how many must be attended to climb
// back to it. Both counts are closed-form inversions of the percentage
// formula; target 0 and 100 make them undefined and are rejected.
func BunkGuard(attended, total, targetPercent int) (dto.BunkGuardReport, error) {
	if targetPercent <= 0 || targetPercent >= 100 {
		return dto.BunkGuardReport{}, appErrors.Clone(appErrors.ErrValidation, "target percent must be between 1 and 99")
	}
	if attended < 0 || total < 0 || attended > total {
		return dto.BunkGuardReport{}, appErrors.Clone(appErrors.ErrValidation, "invalid attendance counters")
	}

	percentage := AttendancePercent(attended, total)
	report := dto.BunkGuardReport{Percentage: percentage}

	if percentage >= float64(targetPercent) {
		// Largest x >= 0 with attended/(total+x) >= target/100. The
		// numerator is non-negative here, so integer division floors.
		skips := (attended*100 - targetPercent*total) / targetPercent
		if skips < 0 {
			skips = 0
		}
		report.CanSkip = true
		report.Count = skips
		if skips == 0 {
			report.Message = "Attendance is on target, but don't skip the next class."
		} else {
			report.Message = fmt.Sprintf("You can safely skip %d more classes.", skips)
		}
		return report, nil
	}

	// Smallest x >= 0 with (attended+x)/(total+x) >= target/100.
	denominator := 100 - targetPercent
	numerator := targetPercent*total - 100*attended
	needed := (numerator + denominator - 1) / denominator
	if needed < 0 {
		needed = 0
	}
	report.CanSkip = false
	report.Count = needed
	report.Message = fmt.Sprintf("You must attend the next %d classes to reach %d%%.", needed, targetPercent)
	return report, nil
}
