package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the editor in the alternate screen and blocks until the user quits.
// It returns the session as it was when the editor closed and whether it holds
// unsaved changes.
func Run(ctx context.Context, opts ...Option) (*session.Session, bool, error) {
	m, err := New(opts...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create editor: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return m.session, true, ctx.Err()
		}
		return nil, false, fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return nil, false, fmt.Errorf("TUI returned unexpected model %T", final)
	}
	return fm.Session(), fm.Dirty(), nil
}
