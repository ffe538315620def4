package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// MeterWidth is the default width of score meters.
const MeterWidth = 30

// Meter renders value as a fraction of ceiling.
func Meter(value, ceiling float64, width int) string {
	if width <= 0 {
		width = MeterWidth
	}
	fraction := 0.0
	if ceiling > 0 {
		fraction = value / ceiling
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage())
	return bar.ViewAs(fraction)
}

// FormatScore prints a score with the precision of its mode.
func FormatScore(v float64, mode model.GradingMode) string {
	s := strconv.FormatFloat(grading.Round(v, grading.Precision(mode)), 'f', grading.Precision(mode), 64)
	if mode == model.ModeRawPercentage || mode == model.ModeRawPercentageLetter || mode == model.ModePercentageFromMissed {
		s += "%"
	}
	return s
}

// FormatWeight prints a weight without trailing zeros.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func weightLabel(kind calculator.Kind) string {
	if preset, err := calculator.PresetFor(kind); err == nil && preset.WeightLabel != "" {
		return strings.ToLower(preset.WeightLabel)
	}
	return "weight"
}

// RenderReport writes a report for s. A nil session omits the entry table.
func RenderReport(w io.Writer, s *session.Session, r calculator.Report) error {
	var b strings.Builder
	ceiling := grading.Ceiling(r.Mode)
	unit := weightLabel(r.Kind)

	b.WriteString(FormatTitle(r.Title))
	b.WriteString("\n")

	if s != nil {
		b.WriteString(renderEntries(s))
	}

	if len(r.Groups) > 1 {
		rows := make([]string, 0, len(r.Groups))
		for _, g := range r.Groups {
			rows = append(rows, fmt.Sprintf("%-18s %8s  %s %s",
				g.Name, FormatScore(g.Aggregate.Score, r.Mode), FormatWeight(g.Aggregate.Weight), unit))
		}
		b.WriteString(RenderBox("Groups", strings.Join(rows, "\n")))
		b.WriteString("\n")
	}

	head := r.Headline()
	summary := []string{
		fmt.Sprintf("%s  %s", BoldStyle.Render(FormatScore(head.Score, r.Mode)), Meter(head.Score, ceiling, MeterWidth)),
		SubtleStyle.Render(fmt.Sprintf("over %s %s, %d counted", FormatWeight(head.Weight), unit, r.Counted)),
	}
	if r.Cumulative != nil {
		summary = append(summary, fmt.Sprintf("This term: %s over %s %s",
			FormatScore(r.Current.Score, r.Mode), FormatWeight(r.Current.Weight), unit))
	}
	if r.Projected != nil {
		summary = append(summary, fmt.Sprintf("Planned courses: %s over %s %s",
			FormatScore(r.Current.Score, r.Mode), FormatWeight(r.Current.Weight), unit))
	}
	if r.Letter != "" {
		summary = append(summary, "Letter: "+BoldStyle.Render(r.Letter))
	}
	if r.Standing != "" {
		summary = append(summary, "Standing: "+r.Standing)
	}
	if r.FourPoint != nil {
		summary = append(summary, fmt.Sprintf("4.0 scale (approx.): %.2f", *r.FourPoint))
	}
	b.WriteString(RenderBox("Result", strings.Join(summary, "\n")))
	b.WriteString("\n")

	if r.Final != nil {
		b.WriteString(RenderFinalOutlook(*r.Final, r.Params))
		b.WriteString("\n")
	}
	if r.Future != nil {
		b.WriteString(RenderFutureOutlook(*r.Future, r.Params, ceiling))
		b.WriteString("\n")
	}
	if r.Trend != nil && r.Trend.Best != nil {
		b.WriteString(renderTrend(*r.Trend, r.Mode))
		b.WriteString("\n")
	}
	for _, n := range r.Notices {
		b.WriteString(FormatNotice(n))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderEntries(s *session.Session) string {
	var b strings.Builder
	for _, g := range s.Groups {
		var rows []string
		for _, e := range g.Entries {
			if !grading.IsCounted(e, s.Mode) {
				continue
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
				TableCellStyle.Width(20).Render(e.Label),
				TableCellStyle.Width(6).Render(e.Token),
				TableCellStyle.Width(8).Render(FormatWeight(e.Weight)),
				TableCellStyle.Render(FormatScore(e.Score, s.Mode)),
			))
		}
		if len(rows) == 0 {
			continue
		}
		header := lipgloss.JoinHorizontal(lipgloss.Top,
			TableHeaderStyle.Width(20).Render("Entry"),
			TableHeaderStyle.Width(6).Render("Grade"),
			TableHeaderStyle.Width(8).Render("Weight"),
			TableHeaderStyle.Render("Score"),
		)
		b.WriteString(SubtitleStyle.Render(g.Name))
		b.WriteString("\n")
		b.WriteString(header + "\n" + strings.Join(rows, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

// RenderFinalOutlook describes the score needed on a final exam.
func RenderFinalOutlook(o grading.FinalOutlook, p calculator.Params) string {
	var line string
	switch o.Status {
	case grading.StatusAlreadyAchieved:
		line = FormatSuccess(fmt.Sprintf("You already have %.0f%% or more, whatever the final.", p.Target))
	case grading.StatusLikelyUnachievable:
		line = FormatWarning(fmt.Sprintf("You would need %.1f%% on the final, which is above 100%%.", o.Display))
	default:
		line = FormatInfo(fmt.Sprintf("You need %.1f%% on the final (worth %s%%) to reach %.0f%%.",
			o.Display, FormatWeight(p.FinalWeight), p.Target))
	}
	return line + "\n" + Meter(o.Meter, grading.MaxPercentage, MeterWidth)
}

// RenderFutureOutlook describes the average needed over future credits.
func RenderFutureOutlook(o grading.FutureOutlook, p calculator.Params, ceiling float64) string {
	switch o.Status {
	case grading.StatusAlreadyExceeded:
		return FormatSuccess(fmt.Sprintf("You are already above %.2f.", p.Target))
	case grading.StatusUnachievable:
		return FormatWarning(fmt.Sprintf("Reaching %.2f needs %.3f over the next %s credits, above the %.1f maximum.",
			p.Target, o.Display, FormatWeight(p.FutureWeight), ceiling))
	default:
		return FormatInfo(fmt.Sprintf("Average %.3f over the next %s credits to reach %.2f.",
			o.Display, FormatWeight(p.FutureWeight), p.Target))
	}
}

func renderTrend(t grading.TrendReport, mode model.GradingMode) string {
	lines := []string{
		fmt.Sprintf("Best:  %s (%s)", t.Best.Name, FormatScore(t.Best.Aggregate.Score, mode)),
		fmt.Sprintf("Worst: %s (%s)", t.Worst.Name, FormatScore(t.Worst.Aggregate.Score, mode)),
	}
	if t.Direction != grading.TrendInsufficient {
		lines = append(lines, "Trend: "+string(t.Direction))
	}
	return RenderBox(ChartIcon+" Progress", strings.Join(lines, "\n"))
}

// RenderScale writes the grade reference table for mode.
func RenderScale(w io.Writer, mode model.GradingMode) error {
	rows := grading.Scale(mode)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo(mode.Describe()+": enter values directly."))
		return err
	}

	var b strings.Builder
	b.WriteString(FormatTitle(mode.Describe()))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(12).Render(row.Token),
			TableCellStyle.Width(8).Render(FormatWeight(row.Value)),
			SubtleStyle.Render(row.Range),
		))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
