// Package cli renders calculator results and drives the line-based prompts of
// the gpa command.
package cli

import (
	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	accent  = lipgloss.Color("#5B8DEF")
	good    = lipgloss.Color("#4ECDC4")
	caution = lipgloss.Color("#FFE66D")
	bad     = lipgloss.Color("#FF6B6B")
	note    = lipgloss.Color("#95E1D3")
	muted   = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	// SubtitleStyle renders the secondary line under a report title.
	SubtitleStyle = lipgloss.NewStyle().Foreground(muted).MarginBottom(1)
	// SubtleStyle dims labels and hints.
	SubtleStyle = lipgloss.NewStyle().Foreground(muted)
	// BoldStyle highlights headline numbers.
	BoldStyle = lipgloss.NewStyle().Bold(true)
	// TableHeaderStyle and TableCellStyle lay out entry and session tables.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2).Foreground(muted)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	GradIcon  = "🎓"
	PartyIcon = "🎉"
	ChartIcon = "📊"
)

// noticeLook pairs a notice kind with its icon and color.
var noticeLook = map[calculator.NoticeKind]struct {
	icon  string
	color lipgloss.Color
}{
	calculator.NoticeCelebration: {PartyIcon, good},
	calculator.NoticeInsight:     {"ℹ️", note},
	calculator.NoticeWarning:     {"⚠️", caution},
}

func noticeLine(kind calculator.NoticeKind, message string) string {
	look, ok := noticeLook[kind]
	if !ok {
		look = noticeLook[calculator.NoticeInsight]
	}
	return lipgloss.NewStyle().Foreground(look.color).Render(look.icon + " " + message)
}

// FormatSuccess marks a completed action.
func FormatSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(good).Render("✓ " + message)
}

// FormatError marks rejected input.
func FormatError(message string) string {
	return lipgloss.NewStyle().Foreground(bad).Render("✗ " + message)
}

// FormatWarning renders message like a warning notice.
func FormatWarning(message string) string {
	return noticeLine(calculator.NoticeWarning, message)
}

// FormatInfo renders message like an insight notice.
func FormatInfo(message string) string {
	return noticeLine(calculator.NoticeInsight, message)
}

// FormatNotice renders a report notice with the icon of its kind.
func FormatNotice(n calculator.Notice) string {
	return noticeLine(n.Kind, n.Message)
}

// FormatTitle renders a calculator or table title.
func FormatTitle(title string) string {
	return titleStyle.Render(GradIcon + " " + title)
}

// FormatPrompt renders the question of an interactive prompt.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.UnsetMargins().Render(title), content))
}
