package calculator

import (
	"math"
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	label  string
	token  string
	weight float64
}

// build creates a session for kind with one group per slice of rows, adding
// entries when a group needs more than the layout provides.
func build(t *testing.T, kind Kind, groups ...[]row) *session.Session {
	t.Helper()
	preset, err := PresetFor(kind)
	require.NoError(t, err)

	s := preset.NewSession()
	for gi, rows := range groups {
		if gi > 0 {
			s.AddGroup("")
		}
		g := s.Groups[gi]
		for len(s.Groups[gi].Entries) < len(rows) {
			_, err := s.AddEntry(g.ID)
			require.NoError(t, err)
		}
		for ei, r := range rows {
			label, token, weight := r.label, r.token, r.weight
			_, err := s.UpdateEntry(g.ID, s.Groups[gi].Entries[ei].ID, session.EntryUpdate{
				Label: &label, Token: &token, Weight: &weight,
			})
			require.NoError(t, err)
		}
	}
	return s
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind(" College ")
	require.NoError(t, err)
	assert.Equal(t, College, got)

	_, err = ParseKind("astrology")
	assert.ErrorIs(t, err, common.ErrInvalidKind)
}

func TestPresets(t *testing.T) {
	all := Presets()
	require.Len(t, all, 9)
	for i, p := range all {
		assert.Equal(t, AllKinds[i], p.Kind)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Mode)
	}

	_, err := PresetFor(Kind("nope"))
	assert.ErrorIs(t, err, common.ErrInvalidKind)

	ms, err := PresetFor(MiddleSchool)
	require.NoError(t, err)
	s := ms.NewSession(session.WithName("7th grade"))
	assert.Equal(t, "7th grade", s.Name)
	assert.Equal(t, string(MiddleSchool), s.Kind)
	require.Len(t, s.Groups[0].Entries, 6)
	assert.Equal(t, 1.0, s.Groups[0].Entries[0].Weight)

	ez, err := PresetFor(EZGrader)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ez.Ceiling())
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate(College, nil, Params{})
	assert.ErrorIs(t, err, ErrNilSession)

	_, err = Evaluate(Kind("nope"), session.New(model.ModeCreditWeightedLetter), Params{})
	assert.ErrorIs(t, err, common.ErrInvalidKind)

	_, err = Evaluate(SGPAToCGPA, session.New(model.ModeCreditWeightedLetter), Params{})
	assert.ErrorIs(t, err, ErrModeMismatch)
}

func TestEvaluate_EmptySession(t *testing.T) {
	for _, k := range AllKinds {
		t.Run(string(k), func(t *testing.T) {
			preset, err := PresetFor(k)
			require.NoError(t, err)

			r, err := Evaluate(k, preset.NewSession(), Params{})
			require.NoError(t, err)
			assert.Equal(t, model.Aggregate{}, r.Current)
			assert.Zero(t, r.Counted)
			assert.False(t, r.HasNotice(NoticeCelebration))
			assert.NotNil(t, r.Notices)
		})
	}
}

func TestEvaluate_CollegeWithPrior(t *testing.T) {
	s := build(t, College, []row{
		{"Calculus", "A", 3},
		{"Physics", "B+", 4},
		{"Writing", "A-", 3},
	})
	s.SetPrior(&model.Prior{Score: 3.5, Weight: 60})

	r, err := Evaluate(College, s, Params{})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Counted)
	assert.InDelta(t, 3.63, r.Current.Score, 1e-9)
	assert.Equal(t, 10.0, r.Current.Weight)
	require.NotNil(t, r.Cumulative)
	assert.InDelta(t, 3.519, r.Cumulative.Score, 1e-9)
	assert.Equal(t, 70.0, r.Cumulative.Weight)
	assert.Equal(t, *r.Cumulative, r.Headline())
	assert.Equal(t, "B+", r.Letter)
	assert.Equal(t, "Good Job", r.Standing)
	assert.False(t, r.HasNotice(NoticeCelebration))
}

func TestEvaluate_CollegeCelebration(t *testing.T) {
	s := build(t, College, []row{
		{"Calculus", "A", 3},
		{"Physics", "A", 4},
		{"Writing", "A-", 3},
	})

	r, err := Evaluate(College, s, Params{})
	require.NoError(t, err)
	// (12 + 16 + 11.1) / 10
	assert.InDelta(t, 3.91, r.Current.Score, 1e-9)
	assert.True(t, r.HasNotice(NoticeCelebration))
	assert.Nil(t, r.Cumulative)

	fewer := build(t, College, []row{{"Calculus", "A", 3}, {"Physics", "A", 4}})
	r, err = Evaluate(College, fewer, Params{})
	require.NoError(t, err)
	assert.False(t, r.HasNotice(NoticeCelebration))
}

func TestEvaluate_Cumulative(t *testing.T) {
	s := build(t, Cumulative,
		[]row{{"Calculus", "A", 3}, {"Physics", "A", 3}},
		[]row{{"Chemistry", "B", 3}},
	)

	r, err := Evaluate(Cumulative, s, Params{})
	require.NoError(t, err)

	assert.InDelta(t, 3.667, r.Current.Score, 1e-9)
	assert.Equal(t, 9.0, r.Current.Weight)
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "Semester 2", r.Groups[1].Name)
	require.NotNil(t, r.Trend)
	assert.Equal(t, grading.TrendDeclined, r.Trend.Direction)
	assert.Equal(t, "Semester 1", r.Trend.Best.Name)
	require.NotEmpty(t, r.Notices)
	assert.Equal(t, Notice{Kind: NoticeInsight, Message: "Your GPA dropped from 4.00 to 3.00"}, r.Notices[0])
	assert.Nil(t, r.Future, "no target requested")
	assert.Equal(t, DefaultFutureCredits, r.Params.FutureWeight)
}

func TestEvaluate_CumulativeTarget(t *testing.T) {
	s := build(t, Cumulative,
		[]row{{"Calculus", "B", 3}, {"Physics", "B", 3}},
		[]row{{"Chemistry", "A", 3}, {"Biology", "A", 3}},
	)

	r, err := Evaluate(Cumulative, s, Params{Target: 3.6})
	require.NoError(t, err)
	assert.Equal(t, grading.TrendImproved, r.Trend.Direction)
	assert.InDelta(t, 3.5, r.Current.Score, 1e-9)
	require.NotNil(t, r.Future)
	// (3.6 * 27 - 3.5 * 12) / 15
	assert.InDelta(t, 3.68, r.Future.Raw, 1e-9)
	assert.Equal(t, grading.StatusAchievable, r.Future.Status)

	r, err = Evaluate(Cumulative, s, Params{Target: 3.9, FutureWeight: 3})
	require.NoError(t, err)
	require.NotNil(t, r.Future)
	assert.Equal(t, grading.StatusUnachievable, r.Future.Status)
	assert.True(t, r.HasNotice(NoticeWarning))

	r, err = Evaluate(Cumulative, s, Params{Target: 4.5})
	require.NoError(t, err)
	assert.Nil(t, r.Future)
	assert.True(t, r.HasNotice(NoticeWarning))

	r, err = Evaluate(Cumulative, s, Params{Target: 1.5})
	require.NoError(t, err)
	require.NotNil(t, r.Future)
	assert.Equal(t, grading.StatusAlreadyExceeded, r.Future.Status)
	assert.Zero(t, r.Future.Display)
}

func TestEvaluate_EZGrader(t *testing.T) {
	s := build(t, EZGrader, []row{
		{"Quiz 1", "2", 20},
		{"Quiz 2", "1", 10},
	})

	r, err := Evaluate(EZGrader, s, Params{})
	require.NoError(t, err)
	assert.Equal(t, model.Aggregate{Score: 90, Weight: 30}, r.Current)
	assert.Equal(t, "A-", r.Letter)
	assert.Equal(t, "Excellent", r.Standing)
	assert.True(t, r.HasNotice(NoticeCelebration))

	weighted := build(t, EZGrader, []row{
		{"Quiz 1", "3", 20},
		{"Quiz 2", "0", 5},
	})
	r, err = Evaluate(EZGrader, weighted, Params{})
	require.NoError(t, err)
	// (85*20 + 100*5) / 25
	assert.Equal(t, 88.0, r.Current.Score)
	assert.False(t, r.HasNotice(NoticeCelebration))
}

func TestEvaluate_FinalGrade(t *testing.T) {
	s := build(t, FinalGrade, []row{
		{"Homework", "B", 50},
		{"Midterm", "A", 50},
	})

	r, err := Evaluate(FinalGrade, s, Params{})
	require.NoError(t, err)
	assert.Equal(t, DefaultFinalTarget, r.Params.Target)
	assert.Equal(t, DefaultFinalWeight, r.Params.FinalWeight)
	assert.Equal(t, 88.0, r.Current.Score)
	require.NotNil(t, r.Final)
	assert.Equal(t, grading.StatusAchievable, r.Final.Status)
	assert.InDelta(t, 96.0, r.Final.Display, 1e-9)
	assert.Empty(t, r.Notices)

	r, err = Evaluate(FinalGrade, s, Params{Target: 99})
	require.NoError(t, err)
	assert.Equal(t, grading.StatusLikelyUnachievable, r.Final.Status)
	assert.InDelta(t, 132.0, r.Final.Raw, 1e-9)
	assert.Equal(t, 100.0, r.Final.Meter)
	assert.True(t, r.HasNotice(NoticeWarning))

	r, err = Evaluate(FinalGrade, s, Params{Target: 60})
	require.NoError(t, err)
	assert.True(t, r.Final.Achieved())
	assert.Zero(t, r.Final.Display)
	assert.True(t, r.HasNotice(NoticeCelebration))

	r, err = Evaluate(FinalGrade, s, Params{Target: 80})
	require.NoError(t, err)
	// (80 - 66) / 0.25 = 56
	assert.InDelta(t, 56.0, r.Final.Raw, 1e-9)
	assert.True(t, r.HasNotice(NoticeInsight))

	r, err = Evaluate(FinalGrade, s, Params{FinalWeight: 150})
	require.NoError(t, err)
	assert.Nil(t, r.Final)
	assert.True(t, r.HasNotice(NoticeWarning))
}

func TestEvaluate_FinalGradeUsesUnroundedMean(t *testing.T) {
	s := build(t, FinalGrade, []row{
		{"Homework", "B", 1},
		{"Midterm", "A", 1},
		{"Project", "A", 1},
	})

	r, err := Evaluate(FinalGrade, s, Params{Target: 90, FinalWeight: 25})
	require.NoError(t, err)
	assert.Equal(t, 89.67, r.Current.Score)
	require.NotNil(t, r.Final)
	// (90 - 269/3 * 0.75) / 0.25 = 91; the rounded 89.67 would give 90.99.
	assert.InDelta(t, 91.0, r.Final.Raw, 1e-9)
	assert.InDelta(t, 91.0, r.Final.Display, 1e-9)
}

func TestEvaluate_GPAPlanning(t *testing.T) {
	t.Run("out of reach", func(t *testing.T) {
		s := build(t, GPAPlanning, []row{
			{"Algorithms", "A", 3}, {"Networks", "A", 3}, {"Databases", "A", 3},
			{"Compilers", "A", 3}, {"Security", "A", 3},
		})
		s.SetPrior(&model.Prior{Score: 3.2, Weight: 60})

		r, err := Evaluate(GPAPlanning, s, Params{})
		require.NoError(t, err)
		assert.Equal(t, DefaultPlanningTarget, r.Params.Target)
		require.NotNil(t, r.Projected)
		// (3.2*60 + 4*15) / 75
		assert.InDelta(t, 3.36, r.Projected.Score, 1e-9)
		require.NotNil(t, r.Future)
		assert.InDelta(t, 4.7, r.Future.Raw, 1e-9)
		assert.Equal(t, grading.StatusUnachievable, r.Future.Status)
		assert.Equal(t, "Revise Plan", r.Standing)
		assert.False(t, r.HasNotice(NoticeCelebration))
	})

	t.Run("on track", func(t *testing.T) {
		s := build(t, GPAPlanning, []row{
			{"Algorithms", "A", 4}, {"Networks", "A", 4}, {"Databases", "A", 4}, {"Compilers", "A", 3},
		})
		s.SetPrior(&model.Prior{Score: 3.0, Weight: 45})

		r, err := Evaluate(GPAPlanning, s, Params{Target: 3.2})
		require.NoError(t, err)
		assert.InDelta(t, 3.25, r.Projected.Score, 1e-9)
		assert.InDelta(t, 3.8, r.Future.Raw, 1e-9)
		assert.True(t, r.Future.Achievable())
		assert.Equal(t, "On Track", r.Standing)
		assert.True(t, r.HasNotice(NoticeCelebration))
	})

	t.Run("needs improvement", func(t *testing.T) {
		s := build(t, GPAPlanning, []row{{"Algorithms", "B", 15}})
		s.SetPrior(&model.Prior{Score: 3.0, Weight: 45})

		r, err := Evaluate(GPAPlanning, s, Params{Target: 3.2})
		require.NoError(t, err)
		assert.InDelta(t, 3.0, r.Projected.Score, 1e-9)
		assert.Equal(t, "Needs Improvement", r.Standing)
	})
}

func TestEvaluate_SGPAToCGPA(t *testing.T) {
	s := build(t, SGPAToCGPA, []row{
		{"Semester 1", "8", 20},
		{"Semester 2", "9", 20},
		{"Semester 3", "10", 20},
	})

	r, err := Evaluate(SGPAToCGPA, s, Params{})
	require.NoError(t, err)
	assert.Equal(t, model.Aggregate{Score: 9, Weight: 60}, r.Current)
	require.NotNil(t, r.FourPoint)
	assert.Equal(t, 3.67, *r.FourPoint)
	assert.Equal(t, "Excellent", r.Standing)
	assert.False(t, r.HasNotice(NoticeCelebration))

	top := build(t, SGPAToCGPA, []row{
		{"Semester 1", "9.6", 20},
		{"Semester 2", "9.8", 20},
		{"Semester 3", "9.7", 20},
	})
	r, err = Evaluate(SGPAToCGPA, top, Params{})
	require.NoError(t, err)
	assert.Equal(t, "Outstanding", r.Standing)
	assert.Equal(t, 3.98, *r.FourPoint)
	assert.True(t, r.HasNotice(NoticeCelebration))
}

func TestEvaluate_MiddleSchool(t *testing.T) {
	s := build(t, MiddleSchool, []row{
		{"Math", "A", 1},
		{"Science", "B", 3},
	})

	r, err := Evaluate(MiddleSchool, s, Params{})
	require.NoError(t, err)
	assert.Equal(t, model.Aggregate{Score: 3.5, Weight: 2}, r.Current)
	assert.Equal(t, "Good Job", r.Standing)

	r, err = Evaluate(MiddleSchool, s, Params{UseCredits: true})
	require.NoError(t, err)
	assert.Equal(t, model.Aggregate{Score: 3.25, Weight: 4}, r.Current)

	straightA := build(t, MiddleSchool, []row{
		{"Math", "A", 1}, {"Science", "A", 1}, {"English", "A+", 1}, {"Art", "A-", 1},
	})
	r, err = Evaluate(MiddleSchool, straightA, Params{})
	require.NoError(t, err)
	assert.True(t, r.HasNotice(NoticeCelebration))
	assert.Equal(t, "A", r.Letter)
}

func TestEvaluate_InfiniteWeightNotCounted(t *testing.T) {
	s := build(t, College, []row{
		{"Math", "A", math.Inf(1)},
		{"Physics", "B+", 4},
	})

	r, err := Evaluate(College, s, Params{})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(r.Current.Score))
	assert.Equal(t, model.Aggregate{Score: 3.3, Weight: 4}, r.Current)
	assert.Equal(t, 1, r.Counted)
	assert.Equal(t, "B+", r.Letter)
}
