package estimate

import "math"

// Grade buckets a confidence or reliability value for display.
type Grade string

const (
	GradeHigh   Grade = "high"
	GradeMedium Grade = "medium"
	GradeLow    Grade = "low"
)

// Percent returns v as a rounded percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// GradeOf buckets v by its rounded percentage: 80 and above is high,
// 60 and above is medium, anything else is low.
func GradeOf(v float64) Grade {
	switch pct := Percent(v); {
	case pct >= 80:
		return GradeHigh
	case pct >= 60:
		return GradeMedium
	default:
		return GradeLow
	}
}
