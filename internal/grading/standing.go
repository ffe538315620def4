package grading

import "github.com/PROGPA/gpacalculaters/internal/model"

type band struct {
	min   float64
	label string
}

var gpaLetterBands = []band{
	{3.7, "A"}, {3.3, "B+"}, {3.0, "B"}, {2.7, "B-"}, {2.3, "C+"},
	{2.0, "C"}, {1.7, "C-"}, {1.3, "D+"}, {1.0, "D"},
}

var percentageLetterBands = []band{
	{97, "A+"}, {93, "A"}, {90, "A-"}, {87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"}, {67, "D+"}, {65, "D"},
}

var percentageLabelBands = []band{
	{90, "Excellent"}, {80, "Good"}, {70, "Fair"}, {60, "Poor"},
}

var cgpaClassBands = []band{
	{9.5, "Outstanding"}, {8.5, "Excellent"}, {7.5, "Very Good"}, {6.5, "Good"},
	{5.5, "Above Average"}, {5.0, "Average"}, {4.0, "Below Average"},
}

var performanceBands = []band{
	{3.7, "Excellent"}, {3.0, "Good Job"}, {2.5, "Satisfactory"}, {2.0, "Needs Improvement"},
}

func lookupBand(bands []band, v float64, fallback string) string {
	for _, b := range bands {
		if v >= b.min {
			return b.label
		}
	}
	return fallback
}

// LetterForGPA returns the letter grade a 4.0 scale average corresponds to.
func LetterForGPA(gpa float64) string {
	return lookupBand(gpaLetterBands, gpa, "F")
}

// LetterForPercentage returns the letter grade a percentage average corresponds to.
func LetterForPercentage(pct float64) string {
	return lookupBand(percentageLetterBands, pct, "F")
}

// PercentageLabel describes a percentage average.
func PercentageLabel(pct float64) string {
	return lookupBand(percentageLabelBands, pct, "Failing")
}

// CGPAClass returns the standing of a 10 point CGPA.
func CGPAClass(cgpa float64) string {
	return lookupBand(cgpaClassBands, cgpa, "Poor")
}

// PerformanceLabel returns an encouragement label for a 4.0 scale average.
func PerformanceLabel(gpa float64) string {
	return lookupBand(performanceBands, gpa, "Keep Trying")
}

// TrendDirection describes how the latest group compares to the one before it.
type TrendDirection string

// Trend directions.
const (
	TrendImproved     TrendDirection = "improved"
	TrendDeclined     TrendDirection = "declined"
	TrendSteady       TrendDirection = "steady"
	TrendInsufficient TrendDirection = "insufficient"
)

// GroupStanding is a named group aggregate.
type GroupStanding struct {
	Name      string          `json:"name"`
	Aggregate model.Aggregate `json:"aggregate"`
}

// TrendReport summarises progression across groups in insertion order.
type TrendReport struct {
	Best      *GroupStanding `json:"best,omitempty"`
	Worst     *GroupStanding `json:"worst,omitempty"`
	Previous  *GroupStanding `json:"previous,omitempty"`
	Latest    *GroupStanding `json:"latest,omitempty"`
	Direction TrendDirection `json:"direction"`
}

// Trend compares the last two groups that have weight, in insertion order, and
// picks the best and worst of all weighted groups. Ties keep the earliest group.
func Trend(groups []model.Group) TrendReport {
	counted := make([]GroupStanding, 0, len(groups))
	for _, g := range groups {
		if g.Weight > 0 {
			counted = append(counted, GroupStanding{Name: g.Name, Aggregate: g.Aggregate()})
		}
	}

	report := TrendReport{Direction: TrendInsufficient}
	if len(counted) == 0 {
		return report
	}

	best, worst := counted[0], counted[0]
	for _, s := range counted[1:] {
		if s.Aggregate.Score > best.Aggregate.Score {
			best = s
		}
		if s.Aggregate.Score < worst.Aggregate.Score {
			worst = s
		}
	}
	report.Best, report.Worst = &best, &worst

	if len(counted) < 2 {
		return report
	}
	prev, last := counted[len(counted)-2], counted[len(counted)-1]
	report.Previous, report.Latest = &prev, &last
	switch {
	case last.Aggregate.Score > prev.Aggregate.Score:
		report.Direction = TrendImproved
	case last.Aggregate.Score < prev.Aggregate.Score:
		report.Direction = TrendDeclined
	default:
		report.Direction = TrendSteady
	}
	return report
}
