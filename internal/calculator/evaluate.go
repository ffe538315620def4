package calculator

import (
	"errors"
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// Evaluation errors.
var (
	ErrNilSession   = errors.New("session is nil")
	ErrModeMismatch = errors.New("session grading mode does not match calculator")
)

// Evaluate computes the calculator's report for the session. It never mutates s.
func Evaluate(kind Kind, s *session.Session, p Params) (Report, error) {
	preset, err := PresetFor(kind)
	if err != nil {
		return Report{}, err
	}
	if s == nil {
		return Report{}, ErrNilSession
	}
	if s.Mode != preset.Mode {
		return Report{}, fmt.Errorf("%w: %s expects %s, got %s", ErrModeMismatch, kind, preset.Mode, s.Mode)
	}

	r := Report{
		Kind:    kind,
		Title:   preset.Title,
		Mode:    preset.Mode,
		Params:  p.withDefaults(preset.Defaults),
		Groups:  make([]grading.GroupStanding, 0, len(s.Groups)),
		Notices: []Notice{},
	}
	for _, g := range s.Groups {
		agg := grading.Aggregate(g.Entries, s.Mode)
		r.Groups = append(r.Groups, grading.GroupStanding{Name: g.Name, Aggregate: agg})
		r.Counted += grading.CountEntries(g.Entries, s.Mode)
	}

	switch kind {
	case College, HighSchool, Semester:
		evaluateCredits(&r, s, preset)
	case Cumulative:
		evaluateCumulative(&r, s, preset)
	case EZGrader:
		evaluateTests(&r, s, preset)
	case FinalGrade:
		evaluateFinal(&r, s)
	case GPAPlanning:
		evaluatePlanning(&r, s, preset)
	case SGPAToCGPA:
		evaluateSGPA(&r, s, preset)
	case MiddleSchool:
		evaluateMiddleSchool(&r, s, preset)
	}
	return r, nil
}

func (r *Report) blend(s *session.Session) {
	r.Current = grading.AggregateAll(s.Groups, nil, s.Mode)
	if s.Prior != nil {
		cum := grading.AggregateAll(s.Groups, s.Prior, s.Mode)
		r.Cumulative = &cum
	}
}

func (r *Report) celebrate(c Celebration, score float64, groups int) {
	if c.Message == "" || r.Counted < c.MinEntries || groups < c.MinGroups {
		return
	}
	if score >= c.Threshold {
		r.notify(NoticeCelebration, c.Message)
	}
}

func countedGroups(groups []grading.GroupStanding) int {
	n := 0
	for _, g := range groups {
		if !g.Aggregate.Empty() {
			n++
		}
	}
	return n
}

func evaluateCredits(r *Report, s *session.Session, preset Preset) {
	r.blend(s)
	head := r.Headline()
	if head.Empty() {
		return
	}
	r.Letter = grading.LetterForGPA(head.Score)
	r.Standing = grading.PerformanceLabel(head.Score)
	r.celebrate(preset.Celebration, head.Score, countedGroups(r.Groups))
}

func evaluateCumulative(r *Report, s *session.Session, preset Preset) {
	r.blend(s)

	groups := make([]model.Group, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = model.Group{Name: g.Name, Score: g.Aggregate.Score, Weight: g.Aggregate.Weight}
	}
	trend := grading.Trend(groups)
	r.Trend = &trend
	switch trend.Direction {
	case grading.TrendImproved:
		r.notify(NoticeInsight, fmt.Sprintf("Your GPA improved from %.2f to %.2f!",
			trend.Previous.Aggregate.Score, trend.Latest.Aggregate.Score))
	case grading.TrendDeclined:
		r.notify(NoticeInsight, fmt.Sprintf("Your GPA dropped from %.2f to %.2f",
			trend.Previous.Aggregate.Score, trend.Latest.Aggregate.Score))
	}

	head := r.Headline()
	if !head.Empty() {
		r.Letter = grading.LetterForGPA(head.Score)
		r.Standing = grading.PerformanceLabel(head.Score)
		r.celebrate(preset.Celebration, head.Score, countedGroups(r.Groups))
	}

	target := r.Params.Target
	switch {
	case target == 0:
		return
	case target < 0 || target > grading.MaxGPA:
		r.notify(NoticeWarning, "Please enter a valid target GPA (0-4.0)")
		return
	case r.Params.FutureWeight <= 0:
		r.notify(NoticeWarning, "Future credits must be greater than zero")
		return
	}

	out := grading.SolveFuture(head.Score, head.Weight, target, r.Params.FutureWeight, grading.MaxGPA)
	r.Future = &out
	switch out.Status {
	case grading.StatusUnachievable:
		r.notify(NoticeWarning, fmt.Sprintf("Target GPA of %g is not achievable. You need a %.2f next term (max is 4.0)",
			target, out.Raw))
	case grading.StatusAlreadyExceeded:
		r.notify(NoticeCelebration, "You've already exceeded your target GPA!")
	default:
		r.notify(NoticeInsight, fmt.Sprintf("To reach %g, you need a %.2f GPA next term (assuming %g credits)",
			target, out.Raw, r.Params.FutureWeight))
	}
}

func evaluateTests(r *Report, s *session.Session, preset Preset) {
	r.Current = grading.AggregateAll(s.Groups, nil, s.Mode)
	if r.Current.Empty() {
		return
	}
	r.Letter = grading.LetterForPercentage(r.Current.Score)
	r.Standing = grading.PercentageLabel(r.Current.Score)
	r.celebrate(preset.Celebration, r.Current.Score, countedGroups(r.Groups))
}

func evaluateFinal(r *Report, s *session.Session) {
	r.Current = grading.AggregateAll(s.Groups, nil, s.Mode)
	if r.Current.Empty() {
		return
	}
	r.Letter = grading.LetterForPercentage(r.Current.Score)
	r.Standing = grading.PercentageLabel(r.Current.Score)

	weight := r.Params.FinalWeight
	if weight <= 0 || weight > 100 {
		r.notify(NoticeWarning, "Final exam weight must be between 0 and 100")
		return
	}

	// Solve from the unrounded mean; Current.Score is rounded for display.
	out := grading.SolveFinal(grading.WeightedMean(s.Groups, s.Mode), weight, r.Params.Target)
	r.Final = &out
	if out.Status == grading.StatusLikelyUnachievable {
		r.notify(NoticeWarning, "Your target grade may not be achievable with current scores")
		return
	}
	if r.Counted < 2 {
		return
	}
	switch {
	case out.Achieved():
		r.notify(NoticeCelebration, "You've already achieved your target grade!")
	case out.Raw <= 70:
		r.notify(NoticeInsight, "Your target grade is very achievable!")
	}
}

func evaluatePlanning(r *Report, s *session.Session, preset Preset) {
	r.Current = grading.AggregateAll(s.Groups, nil, s.Mode)
	if s.Prior == nil && r.Current.Empty() {
		return
	}

	projected := grading.AggregateAll(s.Groups, s.Prior, s.Mode)
	r.Projected = &projected
	r.Letter = grading.LetterForGPA(projected.Score)

	target := r.Params.Target
	if r.Current.Weight > 0 && target > 0 {
		var prior model.Prior
		if s.Prior != nil {
			prior = *s.Prior
		}
		out := grading.SolveFuture(prior.Score, prior.Weight, target, r.Current.Weight, grading.MaxGPA)
		r.Future = &out
	}

	switch {
	case projected.Score >= target:
		r.Standing = "On Track"
	case r.Future == nil || r.Future.Achievable():
		r.Standing = "Needs Improvement"
	default:
		r.Standing = "Revise Plan"
	}

	c := preset.Celebration
	c.Threshold = target
	r.celebrate(c, projected.Score, 0)
}

func evaluateSGPA(r *Report, s *session.Session, preset Preset) {
	r.blend(s)
	head := r.Headline()
	if head.Empty() {
		return
	}
	four := grading.Round(grading.ConvertScaleToFourPoint(head.Score), grading.SGPAPrecision)
	r.FourPoint = &four
	r.Standing = grading.CGPAClass(head.Score)
	r.celebrate(preset.Celebration, head.Score, countedGroups(r.Groups))
}

func evaluateMiddleSchool(r *Report, s *session.Session, preset Preset) {
	if r.Params.UseCredits {
		r.Current = grading.AggregateAll(s.Groups, nil, s.Mode)
	} else {
		r.Current = grading.Mean(grading.Flatten(s.Groups), s.Mode)
	}
	if r.Current.Empty() {
		return
	}
	r.Letter = grading.LetterForGPA(r.Current.Score)
	r.Standing = grading.PerformanceLabel(r.Current.Score)
	r.celebrate(preset.Celebration, r.Current.Score, countedGroups(r.Groups))
}
