package main

import (
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantName string
		wantLen  int
		wantErr  bool
	}{
		{name: "named", value: "Fall: Calculus, A, 3; Physics, B+, 4", wantName: "Fall", wantLen: 2},
		{name: "unnamed", value: "A, 3", wantLen: 1},
		{name: "trailing separator", value: "Year 1: 8.2, 20;", wantName: "Year 1", wantLen: 1},
		{name: "no entries", value: "Fall:", wantErr: true},
		{name: "bad entry", value: "Fall: A, x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, inputs, err := parseGroupFlag(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Len(t, inputs, tt.wantLen)
		})
	}
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(model.ModeCreditWeightedLetter, session.WithKind(string(calculator.College)))
	s.ReplaceGroups([]model.Group{
		{Name: "Fall", Entries: []model.Entry{
			{Label: "Calculus", Token: "A", Weight: 3},
			{Label: "Physics", Token: "B+", Weight: 4},
		}},
		{Name: "Spring", Entries: []model.Entry{
			{Label: "Physics Lab", Token: "A", Weight: 1},
		}},
	})
	return s
}

func TestFindEntry(t *testing.T) {
	s := newTestSession(t)

	g, e, err := findEntry(s, "calculus")
	require.NoError(t, err)
	assert.Equal(t, "Fall", g.Name)
	assert.Equal(t, "Calculus", e.Label)

	g, e, err = findEntry(s, s.Groups[1].Entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring", g.Name)
	assert.Equal(t, "Physics Lab", e.Label)

	_, _, err = findEntry(s, "Chemistry")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindGroup(t *testing.T) {
	s := newTestSession(t)

	g, err := findGroup(s, "2")
	require.NoError(t, err)
	assert.Equal(t, "Spring", g.Name)

	g, err = findGroup(s, "fall")
	require.NoError(t, err)
	assert.Equal(t, "Fall", g.Name)

	_, err = findGroup(s, "Summer")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPlaceEntry(t *testing.T) {
	preset, err := calculator.PresetFor(calculator.College)
	require.NoError(t, err)
	s := preset.NewSession()
	g := s.Groups[0]

	label, err := placeEntry(s, preset, g.ID, mustParse(t, "A, 3"))
	require.NoError(t, err)
	assert.Equal(t, "Course 1", label)
	assert.Len(t, s.Groups[0].Entries, 4, "the first blank entry is reused")

	for i := 0; i < 4; i++ {
		_, err = placeEntry(s, preset, g.ID, mustParse(t, "B, 3"))
		require.NoError(t, err)
	}
	assert.Len(t, s.Groups[0].Entries, 5)
	assert.Equal(t, "Course 5", s.Groups[0].Entries[4].Label)
}

func TestParamsFromFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("final.target", 85.0)
	viper.Set("final.weight", 30.0)

	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		addParamFlags(cmd)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	p, err := paramsFromFlags(newCmd(), calculator.FinalGrade)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, p.Target, 1e-9)
	assert.InDelta(t, 30.0, p.FinalWeight, 1e-9)

	p, err = paramsFromFlags(newCmd("--target", "93"), calculator.FinalGrade)
	require.NoError(t, err)
	assert.InDelta(t, 93.0, p.Target, 1e-9)

	p, err = paramsFromFlags(newCmd(), calculator.Cumulative)
	require.NoError(t, err)
	assert.Zero(t, p.Target)

	_, err = paramsFromFlags(newCmd("--target", "-1"), calculator.College)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func mustParse(t *testing.T, line string) cli.EntryInput {
	t.Helper()
	in, err := cli.ParseEntryLine(line)
	require.NoError(t, err)
	return in
}
