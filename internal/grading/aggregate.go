package grading

import (
	"github.com/PROGPA/gpacalculaters/internal/model"
)

// weightedSum accumulates Σ(score·weight) and Σweight.
type weightedSum struct {
	points float64
	weight float64
}

func (s *weightedSum) add(score, weight float64) {
	if !finite(score) || !finite(weight) || weight <= 0 {
		return
	}
	s.points += score * weight
	s.weight += weight
}

func (s weightedSum) mean() float64 {
	if s.weight <= 0 {
		return 0
	}
	return s.points / s.weight
}

func (s weightedSum) aggregate(precision int) model.Aggregate {
	if s.weight <= 0 {
		return model.Aggregate{}
	}
	return model.Aggregate{Score: Round(s.mean(), precision), Weight: s.weight}
}

func (s *weightedSum) addEntries(entries []model.Entry, mode model.GradingMode) {
	for _, e := range entries {
		if !IsCounted(e, mode) {
			continue
		}
		s.add(ResolveScore(e.Token, mode, e.Weight), e.Weight)
	}
}

// Aggregate returns the weighted mean of the counted entries, rounded to the mode's
// precision, together with their total weight. Entries failing the validity rule are
// skipped; with nothing counted the result is the zero aggregate.
//
// Scores are re-derived from each entry's token so a stale Score field cannot leak
// into the result.
func Aggregate(entries []model.Entry, mode model.GradingMode) model.Aggregate {
	var sum weightedSum
	sum.addEntries(entries, mode)
	return sum.aggregate(Precision(mode))
}

// Mean returns the unweighted mean of the counted entries. Each counted entry has
// weight one, so Weight reports how many entries were counted. Entries still need
// a positive weight to be counted.
func Mean(entries []model.Entry, mode model.GradingMode) model.Aggregate {
	var sum weightedSum
	for _, e := range entries {
		if !IsCounted(e, mode) {
			continue
		}
		sum.add(ResolveScore(e.Token, mode, e.Weight), 1)
	}
	return sum.aggregate(Precision(mode))
}

// CountEntries returns how many entries pass the validity rule.
func CountEntries(entries []model.Entry, mode model.GradingMode) int {
	n := 0
	for _, e := range entries {
		if IsCounted(e, mode) {
			n++
		}
	}
	return n
}

// AggregateGroups combines already reduced aggregates, and the optional prior, with
// the same weighted mean used for entries. Aggregates without weight are ignored.
// The result does not depend on the order of groups.
func AggregateGroups(groups []model.Aggregate, prior *model.Prior, precision int) model.Aggregate {
	var sum weightedSum
	for _, g := range groups {
		sum.add(g.Score, g.Weight)
	}
	if prior != nil {
		sum.add(prior.Score, prior.Weight)
	}
	return sum.aggregate(precision)
}

// AggregateAll reduces every entry of every group in one pass and blends in the
// prior. It equals AggregateGroups over the per-group aggregates, minus the
// rounding of intermediate group scores.
func AggregateAll(groups []model.Group, prior *model.Prior, mode model.GradingMode) model.Aggregate {
	var sum weightedSum
	for _, g := range groups {
		sum.addEntries(g.Entries, mode)
	}
	if prior != nil {
		sum.add(prior.Score, prior.Weight)
	}
	return sum.aggregate(Precision(mode))
}

// WeightedMean is the unrounded score of AggregateAll without a prior.
func WeightedMean(groups []model.Group, mode model.GradingMode) float64 {
	var sum weightedSum
	for _, g := range groups {
		sum.addEntries(g.Entries, mode)
	}
	return sum.mean()
}

// GroupAggregates reduces each group on its own, keeping insertion order.
func GroupAggregates(groups []model.Group, mode model.GradingMode) []model.Aggregate {
	out := make([]model.Aggregate, len(groups))
	for i, g := range groups {
		out[i] = Aggregate(g.Entries, mode)
	}
	return out
}

// Flatten returns the entries of all groups in order.
func Flatten(groups []model.Group) []model.Entry {
	n := 0
	for _, g := range groups {
		n += len(g.Entries)
	}
	out := make([]model.Entry, 0, n)
	for _, g := range groups {
		out = append(out, g.Entries...)
	}
	return out
}
