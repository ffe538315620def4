package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/model"
)

// Display precision per scale.
const (
	GPAPrecision        = 3
	PercentagePrecision = 2
	SGPAPrecision       = 2
)

// Scale ceilings.
const (
	MaxGPA        = 4.0
	MaxSGPA       = 10.0
	MaxPercentage = 100.0
)

// ResolveScore converts a grade token into a score for the given mode. auxWeight is
// only read in missed-count mode, where it is the total number of questions.
// Unknown, unparseable or out-of-range tokens resolve to zero.
func ResolveScore(token string, mode model.GradingMode, auxWeight float64) float64 {
	switch mode {
	case model.ModeCreditWeightedLetter:
		return LetterPoints(token)
	case model.ModeRawPercentageLetter:
		return LetterPercentage(token)
	case model.ModePercentageFromMissed:
		return percentageFromMissed(token, auxWeight)
	case model.ModeRawSGPA:
		return boundedNumber(token, MaxSGPA)
	case model.ModeRawPercentage:
		return boundedNumber(token, MaxPercentage)
	default:
		return 0
	}
}

// PercentageFromMissed returns the share of questions answered correctly as a
// percentage rounded to two decimals. It is zero unless 0 <= missed <= total and
// total > 0.
func PercentageFromMissed(total, missed float64) float64 {
	if total <= 0 || missed < 0 || missed > total {
		return 0
	}
	return Round((total-missed)/total*100, PercentagePrecision)
}

func percentageFromMissed(token string, total float64) float64 {
	missed, ok := parseNumber(token)
	if !ok {
		return 0
	}
	return PercentageFromMissed(total, missed)
}

func boundedNumber(token string, ceiling float64) float64 {
	v, ok := parseNumber(token)
	if !ok || v < 0 || v > ceiling {
		return 0
	}
	return v
}

func parseNumber(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// ParseWeight parses a typed weight. Only finite, non-negative numbers are valid.
func ParseWeight(s string) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsCounted reports whether an entry takes part in aggregation: it needs a label,
// a grade token and a positive weight. Numeric modes additionally require the token
// to parse as a number. Unknown letters still count and contribute zero.
func IsCounted(e model.Entry, mode model.GradingMode) bool {
	if strings.TrimSpace(e.Label) == "" || !finite(e.Weight) || e.Weight <= 0 {
		return false
	}
	if strings.TrimSpace(e.Token) == "" {
		return false
	}
	if mode.IsLetter() {
		return true
	}
	_, ok := parseNumber(e.Token)
	return ok
}

// Precision returns the number of decimals results of the mode are rounded to.
func Precision(mode model.GradingMode) int {
	switch mode {
	case model.ModeCreditWeightedLetter:
		return GPAPrecision
	case model.ModeRawSGPA:
		return SGPAPrecision
	default:
		return PercentagePrecision
	}
}

// Ceiling returns the highest score the mode can produce.
func Ceiling(mode model.GradingMode) float64 {
	switch mode {
	case model.ModeCreditWeightedLetter:
		return MaxGPA
	case model.ModeRawSGPA:
		return MaxSGPA
	default:
		return MaxPercentage
	}
}

// Round rounds v to the given number of decimals, half away from zero.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
