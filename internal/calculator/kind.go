// Package calculator turns a session into the report one of the nine calculators
// shows: the aggregates, the target solves and the notices that go with them.
package calculator

import (
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// Kind identifies a calculator.
type Kind string

// Calculators.
const (
	College      Kind = "college"
	HighSchool   Kind = "high-school"
	Semester     Kind = "semester"
	Cumulative   Kind = "cumulative"
	EZGrader     Kind = "ez-grader"
	FinalGrade   Kind = "final-grade"
	GPAPlanning  Kind = "gpa-planning"
	SGPAToCGPA   Kind = "sgpa-cgpa"
	MiddleSchool Kind = "middle-school"
)

// AllKinds lists the calculators in menu order.
var AllKinds = []Kind{
	College, HighSchool, Semester, Cumulative, EZGrader,
	FinalGrade, GPAPlanning, SGPAToCGPA, MiddleSchool,
}

// ParseKind converts a calculator name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[k]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidKind, s)
}

// Celebration is the rule for congratulating a result: the score must reach
// Threshold with at least MinEntries counted entries and MinGroups counted groups.
type Celebration struct {
	Threshold  float64
	MinEntries int
	MinGroups  int
	Message    string
}

// Preset describes how a calculator is laid out and which defaults it starts with.
type Preset struct {
	Kind        Kind
	Title       string
	Mode        model.GradingMode
	Layout      session.Layout
	EntryLabel  string
	TokenLabel  string
	WeightLabel string
	Defaults    Params
	Celebration Celebration
}

// NewSession starts a session laid out for the calculator.
func (p Preset) NewSession(opts ...session.Option) *session.Session {
	base := []session.Option{session.WithLayout(p.Layout), session.WithKind(string(p.Kind))}
	return session.New(p.Mode, append(base, opts...)...)
}

var letterLayout = session.Layout{GroupPrefix: session.DefaultGroupPrefix, EntriesPerGroup: 4}

var presets = map[Kind]Preset{
	College: {
		Kind: College, Title: "College GPA Calculator",
		Mode: model.ModeCreditWeightedLetter, Layout: letterLayout,
		EntryLabel: "Course", TokenLabel: "Grade", WeightLabel: "Credits",
		Celebration: Celebration{Threshold: 3.8, MinEntries: 3, Message: "Outstanding College GPA! Keep up the excellent work!"},
	},
	HighSchool: {
		Kind: HighSchool, Title: "High School GPA Calculator",
		Mode: model.ModeCreditWeightedLetter, Layout: letterLayout,
		EntryLabel: "Class", TokenLabel: "Grade", WeightLabel: "Credits",
		Celebration: Celebration{Threshold: 3.8, MinEntries: 3, Message: "Outstanding GPA! Keep up the excellent work!"},
	},
	Semester: {
		Kind: Semester, Title: "Semester GPA Calculator",
		Mode: model.ModeCreditWeightedLetter, Layout: letterLayout,
		EntryLabel: "Course", TokenLabel: "Grade", WeightLabel: "Credits",
		Celebration: Celebration{Threshold: 3.8, MinEntries: 3, Message: "Excellent semester GPA!"},
	},
	Cumulative: {
		Kind: Cumulative, Title: "Cumulative GPA Calculator",
		Mode: model.ModeCreditWeightedLetter, Layout: letterLayout,
		EntryLabel: "Course", TokenLabel: "Grade", WeightLabel: "Credits",
		Defaults:    Params{FutureWeight: DefaultFutureCredits},
		Celebration: Celebration{Threshold: 3.8, MinGroups: 2, Message: "Outstanding Cumulative GPA! Keep up the excellent work!"},
	},
	EZGrader: {
		Kind: EZGrader, Title: "EZ Grader",
		Mode:       model.ModePercentageFromMissed,
		Layout:     session.Layout{GroupPrefix: "Test Set", EntriesPerGroup: 4},
		EntryLabel: "Test", TokenLabel: "Missed", WeightLabel: "Questions",
		Celebration: Celebration{Threshold: 90, MinEntries: 2, Message: "Excellent average! Keep up the great work!"},
	},
	FinalGrade: {
		Kind: FinalGrade, Title: "Final Grade Calculator",
		Mode:       model.ModeRawPercentageLetter,
		Layout:     session.Layout{GroupPrefix: "Term", EntriesPerGroup: 4},
		EntryLabel: "Assignment", TokenLabel: "Grade", WeightLabel: "Weight",
		Defaults: Params{Target: DefaultFinalTarget, FinalWeight: DefaultFinalWeight},
	},
	GPAPlanning: {
		Kind: GPAPlanning, Title: "GPA Planning Tool",
		Mode: model.ModeCreditWeightedLetter, Layout: letterLayout,
		EntryLabel: "Planned course", TokenLabel: "Expected grade", WeightLabel: "Credits",
		Defaults:    Params{Target: DefaultPlanningTarget},
		Celebration: Celebration{MinEntries: 3, Message: "Great planning! Your projected GPA meets your target!"},
	},
	SGPAToCGPA: {
		Kind: SGPAToCGPA, Title: "SGPA to CGPA Calculator",
		Mode:       model.ModeRawSGPA,
		Layout:     session.Layout{GroupPrefix: "Year", EntriesPerGroup: 4},
		EntryLabel: "Semester", TokenLabel: "SGPA", WeightLabel: "Credits",
		Celebration: Celebration{Threshold: 9.5, MinEntries: 3, Message: "Outstanding CGPA! Exceptional academic performance!"},
	},
	MiddleSchool: {
		Kind: MiddleSchool, Title: "Middle School GPA Calculator",
		Mode:       model.ModeCreditWeightedLetter,
		Layout:     session.Layout{GroupPrefix: "Grading Period", EntriesPerGroup: 6, DefaultWeight: 1},
		EntryLabel: "Subject", TokenLabel: "Grade", WeightLabel: "Credits",
		Celebration: Celebration{Threshold: 3.8, MinEntries: 4, Message: "Amazing grades! Keep up the great work!"},
	},
}

// PresetFor returns the preset of a calculator.
func PresetFor(kind Kind) (Preset, error) {
	p, ok := presets[kind]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", common.ErrInvalidKind, kind)
	}
	return p, nil
}

// Presets returns every preset in menu order.
func Presets() []Preset {
	out := make([]Preset, 0, len(AllKinds))
	for _, k := range AllKinds {
		out = append(out, presets[k])
	}
	return out
}

// Ceiling returns the best score the calculator's scale allows.
func (p Preset) Ceiling() float64 {
	return grading.Ceiling(p.Mode)
}
