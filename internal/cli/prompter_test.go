package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    EntryInput
		wantErr bool
	}{
		{name: "token only", line: "A-", want: EntryInput{Token: "A-"}},
		{name: "token and weight", line: "B+, 3", want: EntryInput{Token: "B+", Weight: 3, HasWeight: true}},
		{name: "full line", line: " Calculus , A , 4 ", want: EntryInput{Label: "Calculus", Token: "A", Weight: 4, HasWeight: true}},
		{name: "empty weight", line: "Lab, A,", want: EntryInput{Label: "Lab", Token: "A"}},
		{name: "fractional weight", line: "Quiz, 92.5, 0.5", want: EntryInput{Label: "Quiz", Token: "92.5", Weight: 0.5, HasWeight: true}},
		{name: "too many fields", line: "a,b,c,d", wantErr: true},
		{name: "missing token", line: "Calculus, , 3", wantErr: true},
		{name: "bad weight", line: "A, three", wantErr: true},
		{name: "negative weight", line: "A, -1", wantErr: true},
		{name: "infinite weight", line: "Math, A, Inf", wantErr: true},
		{name: "nan weight", line: "Math, A, NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntryLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntryInput_Labeled(t *testing.T) {
	assert.Equal(t, "Course 1", EntryInput{Token: "A"}.Labeled("Course 1").Label)
	assert.Equal(t, "Physics", EntryInput{Label: "Physics"}.Labeled("Course 1").Label)
}

func collegePreset(t *testing.T) calculator.Preset {
	t.Helper()
	preset, err := calculator.PresetFor(calculator.College)
	require.NoError(t, err)
	return preset
}

func TestPrompter_FillSession(t *testing.T) {
	preset := collegePreset(t)
	s := preset.NewSession()

	input := strings.Join([]string{
		"Calculus, A, 3",
		"Physics, B+, 4",
		"Writing, A-, 3",
		"",
		"",
		"Art, B, 2",
		"done",
		"ignored, A, 3",
	}, "\n")
	var out bytes.Buffer

	err := NewPrompter(strings.NewReader(input), &out).FillSession(context.Background(), s, preset)
	require.NoError(t, err)

	require.Len(t, s.Groups, 2)
	assert.Len(t, s.Groups[0].Entries, 3)
	assert.InDelta(t, 3.63, s.Groups[0].Score, 1e-9)
	assert.Equal(t, 10.0, s.Groups[0].Weight)

	require.Len(t, s.Groups[1].Entries, 1)
	assert.Equal(t, "Art", s.Groups[1].Entries[0].Label)
	assert.Equal(t, 3.0, s.Groups[1].Score)

	assert.Contains(t, out.String(), "College GPA Calculator")
	assert.Contains(t, out.String(), "Semester 2")
}

func TestPrompter_FillSession_DefaultsAndErrors(t *testing.T) {
	preset := collegePreset(t)
	s := preset.NewSession()

	input := "A, 4\nnot,a,valid,line\nB\n"
	var out bytes.Buffer

	err := NewPrompter(strings.NewReader(input), &out).FillSession(context.Background(), s, preset)
	require.NoError(t, err)

	require.Len(t, s.Groups, 1)
	require.Len(t, s.Groups[0].Entries, 2)
	assert.Equal(t, "Course 1", s.Groups[0].Entries[0].Label)
	assert.Equal(t, "Course 2", s.Groups[0].Entries[1].Label)
	assert.Equal(t, 4.0, s.Groups[0].Score, "the weightless entry is not counted")
	assert.Contains(t, out.String(), "invalid entry")
	assert.Contains(t, out.String(), "Not counted")
}

func TestPrompter_FillSession_TrailingBlankGroupDropped(t *testing.T) {
	preset := collegePreset(t)
	s := preset.NewSession()

	err := NewPrompter(strings.NewReader("Calculus, A, 3\n\n"), &bytes.Buffer{}).
		FillSession(context.Background(), s, preset)
	require.NoError(t, err)

	assert.Len(t, s.Groups, 1)
}

func TestPrompter_FillSession_GrowsGroup(t *testing.T) {
	preset := collegePreset(t)
	s := preset.NewSession()

	lines := []string{"a, A, 1", "b, A, 1", "c, A, 1", "d, A, 1", "e, B, 1", "f, B, 1"}
	err := NewPrompter(strings.NewReader(strings.Join(lines, "\n")), &bytes.Buffer{}).
		FillSession(context.Background(), s, preset)
	require.NoError(t, err)

	require.Len(t, s.Groups[0].Entries, 6)
	assert.InDelta(t, 22.0/6, s.Groups[0].Score, 0.001)
}

func TestPrompter_FillSession_Cancelled(t *testing.T) {
	preset := collegePreset(t)
	s := preset.NewSession()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	err := NewPrompter(pr, &bytes.Buffer{}).FillSession(ctx, s, preset)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
