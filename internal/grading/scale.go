package grading

import (
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/model"
)

// ScaleRow is one line of a grade reference table.
type ScaleRow struct {
	Token string  `json:"token"`
	Value float64 `json:"value"`
	Range string  `json:"range"`
}

// letterOrder is the display order shared by both letter tables.
var letterOrder = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}

var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

var gradePercentages = map[string]float64{
	"A+": 97, "A": 93, "A-": 90,
	"B+": 87, "B": 83, "B-": 80,
	"C+": 77, "C": 73, "C-": 70,
	"D+": 67, "D": 65, "D-": 60,
	"F": 0,
}

var percentageBands = map[string]string{
	"A+": "97-100%", "A": "93-96%", "A-": "90-92%",
	"B+": "87-89%", "B": "83-86%", "B-": "80-82%",
	"C+": "77-79%", "C": "73-76%", "C-": "70-72%",
	"D+": "67-69%", "D": "65-66%", "D-": "60-64%",
	"F": "0-59%",
}

var cgpaBands = []ScaleRow{
	{Token: "9.5-10.0", Value: 9.5, Range: "Outstanding"},
	{Token: "8.5-9.4", Value: 8.5, Range: "Excellent"},
	{Token: "7.5-8.4", Value: 7.5, Range: "Very Good"},
	{Token: "6.5-7.4", Value: 6.5, Range: "Good"},
	{Token: "5.5-6.4", Value: 5.5, Range: "Above Average"},
	{Token: "5.0-5.4", Value: 5.0, Range: "Average"},
	{Token: "4.0-4.9", Value: 4.0, Range: "Below Average"},
	{Token: "Below 4.0", Value: 0, Range: "Poor"},
}

// normalizeLetter trims and upper-cases a letter token.
func normalizeLetter(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// LetterPoints returns the 4.0 scale value of a letter grade. Unknown letters are
// worth zero.
func LetterPoints(letter string) float64 {
	return gradePoints[normalizeLetter(letter)]
}

// LetterPercentage returns the percentage threshold of a letter grade. Unknown
// letters are worth zero.
func LetterPercentage(letter string) float64 {
	return gradePercentages[normalizeLetter(letter)]
}

// KnownLetter reports whether the token is one of the recognised letter grades.
func KnownLetter(letter string) bool {
	_, ok := gradePoints[normalizeLetter(letter)]
	return ok
}

// Scale returns the reference table for a grading mode in display order.
func Scale(mode model.GradingMode) []ScaleRow {
	switch mode {
	case model.ModeCreditWeightedLetter:
		rows := make([]ScaleRow, 0, len(letterOrder))
		for _, l := range letterOrder {
			rows = append(rows, ScaleRow{Token: l, Value: gradePoints[l], Range: percentageBands[l]})
		}
		return rows
	case model.ModeRawPercentageLetter, model.ModePercentageFromMissed, model.ModeRawPercentage:
		rows := make([]ScaleRow, 0, len(letterOrder))
		for _, l := range letterOrder {
			rows = append(rows, ScaleRow{Token: l, Value: gradePercentages[l], Range: percentageBands[l]})
		}
		return rows
	case model.ModeRawSGPA:
		rows := make([]ScaleRow, len(cgpaBands))
		copy(rows, cgpaBands)
		return rows
	default:
		return nil
	}
}
