package tui

import (
	"context"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/tui/themes"
)

// Saver persists the edited session.
type Saver interface {
	SaveSession(ctx context.Context, s *session.Session) error
}

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Storage  Saver
	Session  *session.Session
	Params   calculator.Params
	Kind     calculator.Kind
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Kind:     calculator.College,
		Width:    80,
		Height:   24,
		ShowHelp: true,
	}
}

// WithStorage enables saving with the save key.
func WithStorage(storage Saver) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithSession edits an existing session instead of a fresh one.
func WithSession(s *session.Session) Option {
	return func(c *Config) {
		c.Session = s
	}
}

// WithKind selects the calculator.
func WithKind(kind calculator.Kind) Option {
	return func(c *Config) {
		c.Kind = kind
	}
}

// WithParams sets targets and weights passed to the calculator.
func WithParams(p calculator.Params) Option {
	return func(c *Config) {
		c.Params = p
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHelp toggles the key help footer.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
