package sheets

import (
	"context"
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// ReportWriter exports a session together with its evaluated report.
type ReportWriter interface {
	Write(ctx context.Context, s *session.Session, report calculator.Report) error
}

// Column headers of the entry detail table.
var entryHeader = []any{"Group", "Label", "Grade", "Weight", "Score", "Counted"}

// BuildRows lays out the report as spreadsheet rows: a title, the summary, the
// per-group aggregates and every entry of the session.
func BuildRows(s *session.Session, r calculator.Report) [][]any {
	title := r.Title
	if s.Name != "" {
		title = fmt.Sprintf("%s: %s", r.Title, s.Name)
	}

	values := make([][]any, 0, 16+len(r.Groups)+len(s.Entries()))
	values = append(values,
		[]any{title, string(r.Mode)},
		[]any{},
		[]any{"Summary"},
		[]any{"Score", r.Current.Score},
		[]any{"Total weight", r.Current.Weight},
		[]any{"Counted entries", r.Counted},
	)
	if r.Cumulative != nil {
		values = append(values, []any{"Cumulative", r.Cumulative.Score, r.Cumulative.Weight})
	}
	if r.Projected != nil {
		values = append(values, []any{"Projected", r.Projected.Score, r.Projected.Weight})
	}
	if r.Final != nil {
		values = append(values, []any{"Required final", r.Final.Display, string(r.Final.Status)})
	}
	if r.Future != nil {
		values = append(values, []any{"Required average", r.Future.Display, string(r.Future.Status)})
	}
	if r.FourPoint != nil {
		values = append(values, []any{"4.0 scale (approx.)", *r.FourPoint})
	}
	if r.Letter != "" || r.Standing != "" {
		values = append(values, []any{"Standing", r.Letter, r.Standing})
	}

	values = append(values,
		[]any{},
		[]any{"Groups"},
		[]any{"Group", "Score", "Weight"},
	)
	for _, g := range r.Groups {
		values = append(values, []any{g.Name, g.Aggregate.Score, g.Aggregate.Weight})
	}

	values = append(values, []any{}, []any{"Entries"}, entryHeader)
	for _, g := range s.Groups {
		for _, e := range g.Entries {
			if e.Label == "" && e.Token == "" {
				continue
			}
			values = append(values, []any{
				g.Name,
				e.Label,
				e.Token,
				e.Weight,
				e.Score,
				grading.IsCounted(e, s.Mode),
			})
		}
	}
	return values
}
