// Package model defines the entity shapes shared by the grade calculation engine
// and every surface that feeds it.
package model

import (
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/common"
)

// GradingMode selects how an entry's grade token is turned into a score.
type GradingMode string

// Grading modes.
const (
	// ModeCreditWeightedLetter maps letter grades onto the 4.0 point scale.
	ModeCreditWeightedLetter GradingMode = "letter"
	// ModePercentageFromMissed treats the token as a missed-question count and the weight
	// as the total question count.
	ModePercentageFromMissed GradingMode = "missed"
	// ModeRawPercentageLetter maps letter grades onto fixed percentage thresholds.
	ModeRawPercentageLetter GradingMode = "percent-letter"
	// ModeRawSGPA reads the token as a 0-10 semester GPA.
	ModeRawSGPA GradingMode = "sgpa"
	// ModeRawPercentage reads the token as a 0-100 percentage.
	ModeRawPercentage GradingMode = "percent"
)

// AllModes lists the grading modes in display order.
var AllModes = []GradingMode{
	ModeCreditWeightedLetter,
	ModePercentageFromMissed,
	ModeRawPercentageLetter,
	ModeRawSGPA,
	ModeRawPercentage,
}

// ParseGradingMode converts a mode name into a GradingMode.
func ParseGradingMode(s string) (GradingMode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidMode, s)
}

// IsLetter reports whether the mode reads tokens as letter grades.
func (m GradingMode) IsLetter() bool {
	return m == ModeCreditWeightedLetter || m == ModeRawPercentageLetter
}

// Describe returns a short human description of the mode.
func (m GradingMode) Describe() string {
	switch m {
	case ModeCreditWeightedLetter:
		return "Letter grade on the 4.0 scale, weighted by credits"
	case ModePercentageFromMissed:
		return "Percentage from missed questions, weighted by question count"
	case ModeRawPercentageLetter:
		return "Letter grade as a percentage, weighted by assignment weight"
	case ModeRawSGPA:
		return "Semester GPA on the 10 point scale, weighted by credits"
	case ModeRawPercentage:
		return "Raw percentage, weighted by assignment weight"
	default:
		return string(m)
	}
}
