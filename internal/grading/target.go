package grading

import "math"

// TargetStatus classifies the outcome of an inverse solve.
type TargetStatus string

// Target statuses.
const (
	StatusAlreadyAchieved    TargetStatus = "already_achieved"
	StatusAchievable         TargetStatus = "achievable"
	StatusLikelyUnachievable TargetStatus = "likely_unachievable"
	StatusAlreadyExceeded    TargetStatus = "already_exceeded"
	StatusUnachievable       TargetStatus = "unachievable"
)

// RequiredFinalScore returns the final exam percentage needed to finish with target,
// given the current average of everything else and the final's weight in percent.
// The result is not clamped: it may be negative (target already met) or above 100
// (target out of reach). finalWeight must be positive.
func RequiredFinalScore(currentGrade, finalWeight, targetGrade float64) float64 {
	return (targetGrade - currentGrade*(100-finalWeight)/100) / (finalWeight / 100)
}

// RequiredFutureScore returns the average needed over futureWeight more credits to
// move currentScore over currentWeight credits to targetScore. futureWeight must be
// positive; with zero the result is undefined (±Inf or NaN).
func RequiredFutureScore(currentScore, currentWeight, targetScore, futureWeight float64) float64 {
	return (targetScore*(currentWeight+futureWeight) - currentScore*currentWeight) / futureWeight
}

// FinalOutlook is a required final exam score prepared for display.
type FinalOutlook struct {
	Status  TargetStatus `json:"status"`
	Raw     float64      `json:"raw"`     // unclamped, used for messaging
	Display float64      `json:"display"` // never negative, one decimal
	Meter   float64      `json:"meter"`   // clamped to [0, 100]
}

// Achieved reports whether the target is met without any final exam score.
func (o FinalOutlook) Achieved() bool { return o.Status == StatusAlreadyAchieved }

// Reachable reports whether a score of at most 100 gets to the target.
func (o FinalOutlook) Reachable() bool { return o.Status != StatusLikelyUnachievable }

// SolveFinal computes the required final exam score and classifies it.
func SolveFinal(currentGrade, finalWeight, targetGrade float64) FinalOutlook {
	raw := RequiredFinalScore(currentGrade, finalWeight, targetGrade)
	out := FinalOutlook{
		Raw:     raw,
		Display: math.Max(0, Round(raw, 1)),
		Meter:   clamp(raw, 0, MaxPercentage),
	}
	switch {
	case raw <= 0:
		out.Status = StatusAlreadyAchieved
	case raw > MaxPercentage:
		out.Status = StatusLikelyUnachievable
	default:
		out.Status = StatusAchievable
	}
	return out
}

// FutureOutlook is a required future average prepared for display.
type FutureOutlook struct {
	Status  TargetStatus `json:"status"`
	Raw     float64      `json:"raw"`
	Display float64      `json:"display"` // never negative, three decimals
}

// Achievable reports whether the required average lies within [0, ceiling].
func (o FutureOutlook) Achievable() bool { return o.Status == StatusAchievable }

// SolveFuture computes the average needed over the future credits and classifies it
// against ceiling, the best average the scale allows (4.0 for GPA).
func SolveFuture(currentScore, currentWeight, targetScore, futureWeight, ceiling float64) FutureOutlook {
	raw := RequiredFutureScore(currentScore, currentWeight, targetScore, futureWeight)
	out := FutureOutlook{
		Raw:     raw,
		Display: math.Max(0, Round(raw, GPAPrecision)),
	}
	switch {
	case raw < 0:
		out.Status = StatusAlreadyExceeded
	case raw > ceiling:
		out.Status = StatusUnachievable
	default:
		out.Status = StatusAchievable
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
