package session

import (
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func fill(t *testing.T, s *Session, groupIdx, entryIdx int, label, token string, weight float64) model.Entry {
	t.Helper()
	g := s.Groups[groupIdx]
	e, err := s.UpdateEntry(g.ID, g.Entries[entryIdx].ID, EntryUpdate{
		Label:  ptr(label),
		Token:  ptr(token),
		Weight: ptr(weight),
	})
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	assert.NotEmpty(t, s.ID)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, "Semester 1", s.Groups[0].Name)
	assert.Len(t, s.Groups[0].Entries, 4)
	assert.Nil(t, s.Prior)

	ids := map[string]bool{}
	for _, e := range s.Groups[0].Entries {
		assert.False(t, ids[e.ID], "entry IDs must be unique")
		ids[e.ID] = true
		assert.Zero(t, e.Weight)
	}
}

func TestNew_WithLayout(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter,
		WithLayout(Layout{GroupPrefix: "Term", EntriesPerGroup: 6, DefaultWeight: 1}),
		WithName("Grade 7"),
		WithKind("middle-school"),
	)

	assert.Equal(t, "Grade 7", s.Name)
	assert.Equal(t, "middle-school", s.Kind)
	assert.Equal(t, "Term 1", s.Groups[0].Name)
	require.Len(t, s.Groups[0].Entries, 6)
	assert.Equal(t, 1.0, s.Groups[0].Entries[5].Weight)
}

func TestUpdateEntry_RecalculatesEagerly(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	e := fill(t, s, 0, 0, "Calculus", "A", 3)
	assert.Equal(t, 4.0, e.Score)
	assert.Equal(t, model.Aggregate{Score: 4.0, Weight: 3}, s.Groups[0].Aggregate())

	fill(t, s, 0, 1, "History", "B", 2)
	assert.InDelta(t, 3.6, s.Groups[0].Score, 1e-9)
	assert.Equal(t, 5.0, s.Groups[0].Weight)

	g := s.Groups[0]
	_, err := s.UpdateEntry(g.ID, g.Entries[1].ID, EntryUpdate{Token: ptr("A")})
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Groups[0].Score)
	assert.Equal(t, "History", s.Groups[0].Entries[1].Label, "untouched fields stay")
}

func TestUpdateEntry_MissedCountFollowsWeight(t *testing.T) {
	s := New(model.ModePercentageFromMissed)

	e := fill(t, s, 0, 0, "Quiz", "3", 20)
	assert.Equal(t, 85.0, e.Score)

	g := s.Groups[0]
	e, err := s.UpdateEntry(g.ID, e.ID, EntryUpdate{Weight: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, 70.0, e.Score)
	assert.Equal(t, 70.0, s.Groups[0].Score)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	_, err := s.UpdateEntry("missing", s.Groups[0].Entries[0].ID, EntryUpdate{})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = s.UpdateEntry(s.Groups[0].ID, "missing", EntryUpdate{})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestAddEntry(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	e, err := s.AddEntry(s.Groups[0].ID)
	require.NoError(t, err)
	require.Len(t, s.Groups[0].Entries, 5)
	assert.Equal(t, e.ID, s.Groups[0].Entries[4].ID)

	_, err = s.AddEntry("nope")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestAddGroup(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	g := s.AddGroup("")
	assert.Equal(t, "Semester 2", g.Name)
	assert.Len(t, g.Entries, 4)

	named := s.AddGroup("Summer")
	assert.Equal(t, "Summer", named.Name)
	require.Len(t, s.Groups, 3)

	require.NoError(t, s.RenameGroup(g.ID, "Spring"))
	assert.Equal(t, "Spring", s.Groups[1].Name)
	assert.ErrorIs(t, s.RenameGroup("nope", "x"), ErrGroupNotFound)
}

func TestRemoveEntry(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter, WithLayout(Layout{EntriesPerGroup: 2}))
	fill(t, s, 0, 0, "Calculus", "A", 3)
	fill(t, s, 0, 1, "History", "C", 3)
	require.Equal(t, 3.0, s.Groups[0].Score)

	g := s.Groups[0]
	require.NoError(t, s.RemoveEntry(g.ID, g.Entries[1].ID))
	assert.Equal(t, 4.0, s.Groups[0].Score)

	err := s.RemoveEntry(g.ID, s.Groups[0].Entries[0].ID)
	assert.ErrorIs(t, err, ErrLastEntry)
	assert.Len(t, s.Groups[0].Entries, 1)

	assert.ErrorIs(t, s.RemoveEntry(g.ID, "nope"), ErrEntryNotFound)
	assert.ErrorIs(t, s.RemoveEntry("nope", "nope"), ErrGroupNotFound)
}

func TestRemoveGroup(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	second := s.AddGroup("")

	require.NoError(t, s.RemoveGroup(s.Groups[0].ID))
	require.Len(t, s.Groups, 1)
	assert.Equal(t, second.ID, s.Groups[0].ID)

	assert.ErrorIs(t, s.RemoveGroup(second.ID), ErrLastGroup)
	assert.ErrorIs(t, s.RemoveGroup("nope"), ErrGroupNotFound)
}

func TestSetPrior(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)

	p := &model.Prior{Score: 3.5, Weight: 60}
	s.SetPrior(p)
	require.NotNil(t, s.Prior)
	p.Score = 1.0
	assert.Equal(t, 3.5, s.Prior.Score, "prior is copied")

	s.SetPrior(&model.Prior{Score: 3.0})
	assert.Nil(t, s.Prior)

	s.SetPrior(&model.Prior{Score: 3.5, Weight: 60})
	s.SetPrior(nil)
	assert.Nil(t, s.Prior)
}

func TestSetMode(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	fill(t, s, 0, 0, "Essay", "B+", 30)
	assert.Equal(t, 3.3, s.Groups[0].Score)

	s.SetMode(model.ModeRawPercentageLetter)
	assert.Equal(t, 87.0, s.Groups[0].Entries[0].Score)
	assert.Equal(t, 87.0, s.Groups[0].Score)
}

func TestReset(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	fill(t, s, 0, 0, "Calculus", "A", 3)
	s.AddGroup("")
	s.SetPrior(&model.Prior{Score: 3.0, Weight: 30})
	id := s.ID

	s.Reset()
	assert.Equal(t, id, s.ID)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, "Semester 1", s.Groups[0].Name)
	assert.Nil(t, s.Prior)
	assert.Zero(t, s.Summary().Counted)
}

func TestSummary_CollegeWithPrior(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	fill(t, s, 0, 0, "Calculus", "A", 3)
	fill(t, s, 0, 1, "Physics", "B+", 4)
	fill(t, s, 0, 2, "Writing", "A-", 3)
	s.SetPrior(&model.Prior{Score: 3.5, Weight: 60})

	sum := s.Summary()
	assert.Equal(t, 3, sum.Counted)
	assert.InDelta(t, 3.63, sum.Current.Score, 1e-9)
	assert.Equal(t, 10.0, sum.Current.Weight)
	assert.InDelta(t, 3.519, sum.Combined.Score, 1e-9)
	assert.Equal(t, 70.0, sum.Combined.Weight)
	require.Len(t, sum.Groups, 1)
	assert.InDelta(t, 3.63, sum.Groups[0].Score, 1e-9)
}

func TestRecalculate(t *testing.T) {
	s := &Session{
		Mode: model.ModeRawSGPA,
		Groups: []model.Group{{
			ID: "g1",
			Entries: []model.Entry{
				{ID: "e1", Label: "Sem 1", Token: "8", Weight: 20},
				{ID: "e2", Label: "Sem 2", Token: "9", Weight: 20},
			},
		}},
	}
	s.Recalculate()

	assert.Equal(t, 8.5, s.Groups[0].Score)
	assert.Equal(t, 40.0, s.Groups[0].Weight)
	assert.Equal(t, 9.0, s.Groups[0].Entries[1].Score)
	assert.Len(t, s.Entries(), 2)
}

func TestClone(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	fill(t, s, 0, 0, "Calculus", "A", 3)
	s.SetPrior(&model.Prior{Score: 3.5, Weight: 60})

	c := s.Clone()
	require.Equal(t, s, c)

	fill(t, c, 0, 0, "Calculus", "C", 3)
	c.Prior.Score = 2
	c.AddGroup("")

	assert.Equal(t, "A", s.Groups[0].Entries[0].Token)
	assert.Equal(t, 4.0, s.Groups[0].Score)
	assert.Equal(t, 3.5, s.Prior.Score)
	assert.Len(t, s.Groups, 1)
}

func TestReplaceGroups(t *testing.T) {
	s := New(model.ModeCreditWeightedLetter)
	s.ReplaceGroups([]model.Group{
		{Name: "Fall", Entries: []model.Entry{
			{Label: "Calculus", Token: "A", Weight: 3},
			{Label: "Physics", Token: "B", Weight: 3},
		}},
		{Entries: nil},
	})

	require.Len(t, s.Groups, 2)
	assert.Equal(t, "Fall", s.Groups[0].Name)
	assert.Equal(t, "Semester 2", s.Groups[1].Name)
	assert.NotEmpty(t, s.Groups[0].ID)
	assert.NotEmpty(t, s.Groups[0].Entries[1].ID)
	assert.Equal(t, 3.5, s.Groups[0].Score)
	assert.Equal(t, 6.0, s.Groups[0].Weight)
	assert.Len(t, s.Groups[1].Entries, 1, "an empty group keeps one blank entry")
	assert.Equal(t, 4.0, s.Groups[0].Entries[0].Score, "scores are derived")

	s.ReplaceGroups(nil)
	require.Len(t, s.Groups, 1)
	assert.Len(t, s.Groups[0].Entries, 4)
}
