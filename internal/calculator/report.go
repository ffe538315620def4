package calculator

import (
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
)

// Target defaults.
const (
	DefaultFinalTarget    = 90.0
	DefaultFinalWeight    = 25.0
	DefaultPlanningTarget = 3.5
	DefaultFutureCredits  = 15.0
)

// Params are the per-calculation inputs that are not entries. Zero values take the
// preset's defaults.
type Params struct {
	Target       float64 `json:"target" validate:"gte=0"`
	FinalWeight  float64 `json:"final_weight" validate:"gte=0,lte=100"`
	FutureWeight float64 `json:"future_weight" validate:"gte=0"`
	UseCredits   bool    `json:"use_credits"`
}

// withDefaults fills zero fields from d.
func (p Params) withDefaults(d Params) Params {
	if p.Target == 0 {
		p.Target = d.Target
	}
	if p.FinalWeight == 0 {
		p.FinalWeight = d.FinalWeight
	}
	if p.FutureWeight == 0 {
		p.FutureWeight = d.FutureWeight
	}
	return p
}

// NoticeKind classifies a notice.
type NoticeKind string

// Notice kinds.
const (
	NoticeCelebration NoticeKind = "celebration"
	NoticeInsight     NoticeKind = "insight"
	NoticeWarning     NoticeKind = "warning"
)

// Notice is a message a surface may show next to the numbers.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Report is everything a calculator shows for one session.
type Report struct {
	Kind    Kind              `json:"kind"`
	Title   string            `json:"title"`
	Mode    model.GradingMode `json:"mode"`
	Params  Params            `json:"params"`
	Counted int               `json:"counted"`

	// Current covers the session's own entries.
	Current model.Aggregate `json:"current"`
	// Cumulative blends Current with the prior, when there is one.
	Cumulative *model.Aggregate `json:"cumulative,omitempty"`
	// Projected is the planning tool's prior plus planned courses.
	Projected *model.Aggregate `json:"projected,omitempty"`

	Groups []grading.GroupStanding `json:"groups"`
	Trend  *grading.TrendReport    `json:"trend,omitempty"`

	Final  *grading.FinalOutlook  `json:"final,omitempty"`
	Future *grading.FutureOutlook `json:"future,omitempty"`

	// FourPoint is an approximate 4.0 scale value of a 10 point CGPA.
	FourPoint *float64 `json:"four_point,omitempty"`

	Letter   string   `json:"letter,omitempty"`
	Standing string   `json:"standing,omitempty"`
	Notices  []Notice `json:"notices"`
}

// Headline returns the score a surface should show most prominently.
func (r Report) Headline() model.Aggregate {
	switch {
	case r.Projected != nil:
		return *r.Projected
	case r.Cumulative != nil:
		return *r.Cumulative
	default:
		return r.Current
	}
}

func (r *Report) notify(kind NoticeKind, msg string) {
	r.Notices = append(r.Notices, Notice{Kind: kind, Message: msg})
}

// HasNotice reports whether the report carries a notice of the given kind.
func (r Report) HasNotice(kind NoticeKind) bool {
	for _, n := range r.Notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
