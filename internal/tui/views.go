package tui

import (
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/charmbracelet/lipgloss"
)

// Column widths of the entry table.
const (
	labelWidth  = 22
	tokenWidth  = 10
	weightWidth = 10
	scoreWidth  = 10
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderTable(),
		m.renderResult(),
		m.renderStatus(),
	}
	if m.config.ShowHelp {
		sections = append(sections, m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.GradIcon + " " + m.preset.Title)
	if m.session.Name != "" {
		title += m.theme.Subtitle.Render("  " + m.session.Name)
	}
	if m.dirty {
		title += m.theme.StatusWarning.Render(" *")
	}

	tabs := make([]string, 0, len(m.session.Groups))
	for i, g := range m.session.Groups {
		label := g.Name
		if g.Weight > 0 {
			label += " " + cli.FormatScore(g.Score, m.session.Mode)
		}
		if i == m.group {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderTable() string {
	g := m.currentGroup()
	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(s)
	}

	header := m.theme.Bold.Render(cell(m.preset.EntryLabel, labelWidth) +
		cell(m.preset.TokenLabel, tokenWidth) +
		cell(m.preset.WeightLabel, weightWidth) +
		cell("Score", scoreWidth))

	rows := []string{header}
	for i, e := range g.Entries {
		values := [fieldCount]string{e.Label, e.Token, ""}
		if e.Weight != 0 {
			values[fieldWeight] = cli.FormatWeight(e.Weight)
		}
		if m.editing && i == m.row {
			values[m.field] = m.input.View()
		}

		score := m.theme.Muted.Render("-")
		if grading.IsCounted(e, m.session.Mode) {
			score = cli.FormatScore(e.Score, m.session.Mode)
		}

		line := cell(values[fieldLabel], labelWidth) +
			cell(values[fieldToken], tokenWidth) +
			cell(values[fieldWeight], weightWidth) +
			cell(score, scoreWidth)

		switch {
		case i == m.row && m.editing:
			line = m.theme.Highlighted.Render(line)
		case i == m.row:
			line = m.theme.Selected.Render(line)
		default:
			line = m.theme.Normal.Render(line)
		}
		rows = append(rows, line)
	}

	summary := m.theme.Muted.Render(fmt.Sprintf("%s: %s over %s %s", g.Name,
		cli.FormatScore(g.Score, m.session.Mode), cli.FormatWeight(g.Weight),
		strings.ToLower(m.preset.WeightLabel)))
	rows = append(rows, summary)

	return m.theme.RoundedBox.Render(strings.Join(rows, "\n"))
}

func (m Model) renderResult() string {
	r := m.report
	head := r.Headline()
	ceiling := m.preset.Ceiling()

	fraction := 0.0
	if ceiling > 0 {
		fraction = head.Score / ceiling
	}

	lines := []string{
		m.theme.Bold.Render(cli.FormatScore(head.Score, r.Mode)) + "  " + m.meter.ViewAs(fraction),
		m.theme.Muted.Render(fmt.Sprintf("%d counted, %s %s", r.Counted, cli.FormatWeight(head.Weight),
			strings.ToLower(m.preset.WeightLabel))),
	}
	if r.Letter != "" || r.Standing != "" {
		lines = append(lines, strings.TrimSpace(r.Letter+"  "+r.Standing))
	}
	if r.FourPoint != nil {
		lines = append(lines, fmt.Sprintf("4.0 scale (approx.): %.2f", *r.FourPoint))
	}
	if r.Final != nil {
		lines = append(lines, cli.RenderFinalOutlook(*r.Final, r.Params))
	}
	for _, n := range r.Notices {
		lines = append(lines, m.renderNotice(n))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderNotice(n calculator.Notice) string {
	switch n.Kind {
	case calculator.NoticeCelebration:
		return m.theme.StatusSuccess.Render(cli.PartyIcon + " " + n.Message)
	case calculator.NoticeWarning:
		return m.theme.StatusWarning.Render(n.Message)
	default:
		return m.theme.StatusInfo.Render(n.Message)
	}
}

func (m Model) renderStatus() string {
	switch {
	case m.lastErr != nil:
		return m.theme.StatusError.Render(m.lastErr.Error())
	case m.status != "":
		return m.theme.StatusInfo.Render(m.status)
	default:
		return ""
	}
}
