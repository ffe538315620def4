package api

import (
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// EntryRequest is one graded item in a calculation request.
type EntryRequest struct {
	Label  string  `json:"label" validate:"max=100"`
	Grade  string  `json:"grade" validate:"notblank,max=16"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// GroupRequest is a batch of entries, usually a semester.
type GroupRequest struct {
	Name    string         `json:"name" validate:"max=100"`
	Entries []EntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// PriorRequest is an earned aggregate without entries.
type PriorRequest struct {
	Score  float64 `json:"score" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

// CalculateRequest is the body of POST /v1/calculate/:kind.
type CalculateRequest struct {
	Groups []GroupRequest    `json:"groups" validate:"required,min=1,dive"`
	Prior  *PriorRequest     `json:"prior"`
	Params calculator.Params `json:"params"`
}

// SaveSessionRequest is the body of POST /v1/sessions.
type SaveSessionRequest struct {
	Name   string         `json:"name" validate:"notblank,max=100"`
	Kind   string         `json:"kind" validate:"required"`
	Groups []GroupRequest `json:"groups" validate:"required,min=1,dive"`
	Prior  *PriorRequest  `json:"prior"`
}

// FinalRequest is the body of POST /v1/targets/final.
type FinalRequest struct {
	Current     float64 `json:"current" validate:"gte=0"`
	FinalWeight float64 `json:"final_weight" validate:"gt=0,lte=100"`
	Target      float64 `json:"target" validate:"gte=0"`
}

// FutureRequest is the body of POST /v1/targets/future. A zero ceiling means 4.0.
type FutureRequest struct {
	Current       float64 `json:"current" validate:"gte=0"`
	CurrentWeight float64 `json:"current_weight" validate:"gte=0"`
	Target        float64 `json:"target" validate:"gte=0"`
	FutureWeight  float64 `json:"future_weight" validate:"gt=0"`
	Ceiling       float64 `json:"ceiling" validate:"gte=0"`
}

// ConvertRequest is the body of POST /v1/convert.
type ConvertRequest struct {
	CGPA float64 `json:"cgpa" validate:"gte=0,lte=10"`
}

type scaleRequest struct {
	Mode string `param:"mode" json:"mode" validate:"grading_mode"`
}

// buildSession lays the requested groups out as a session of the calculator.
// Entries without a label are named after their position.
func buildSession(preset calculator.Preset, groups []GroupRequest, prior *PriorRequest, opts ...session.Option) *session.Session {
	s := preset.NewSession(opts...)
	built := make([]model.Group, 0, len(groups))
	n := 0
	for _, g := range groups {
		mg := model.Group{Name: strings.TrimSpace(g.Name)}
		for _, e := range g.Entries {
			n++
			label := strings.TrimSpace(e.Label)
			if label == "" {
				label = fmt.Sprintf("%s %d", preset.EntryLabel, n)
			}
			mg.Entries = append(mg.Entries, model.Entry{
				Label:  label,
				Token:  strings.TrimSpace(e.Grade),
				Weight: e.Weight,
			})
		}
		built = append(built, mg)
	}
	s.ReplaceGroups(built)
	if prior != nil {
		s.SetPrior(&model.Prior{Score: prior.Score, Weight: prior.Weight})
	}
	return s
}
