// Package tui is a terminal editor for a calculation session. Every keystroke
// updates the session and the calculator report is recomputed immediately.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// saveTimeout bounds a single save.
const saveTimeout = 5 * time.Second

// field is the entry column being edited.
type field int

const (
	fieldLabel field = iota
	fieldToken
	fieldWeight
	fieldCount
)

// Model holds the editor state.
type Model struct {
	theme    themes.Theme
	storage  Saver
	session  *session.Session
	lastErr  error
	preset   calculator.Preset
	report   calculator.Report
	config   Config
	input    textinput.Model
	meter    progress.Model
	help     help.Model
	keymap   KeyMap
	status   string
	snapshot model.Entry
	width    int
	height   int
	group    int
	row      int
	field    field
	editing  bool
	dirty    bool
	quitting bool
}

// New creates an editor model. Without WithSession a fresh session laid out for
// the calculator is edited.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	kind := cfg.Kind
	if cfg.Session != nil && cfg.Session.Kind != "" {
		k, err := calculator.ParseKind(cfg.Session.Kind)
		if err != nil {
			return Model{}, err
		}
		kind = k
	}
	preset, err := calculator.PresetFor(kind)
	if err != nil {
		return Model{}, err
	}

	s := cfg.Session
	if s == nil {
		s = preset.NewSession()
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 40

	h := help.New()
	h.ShowAll = false

	m := Model{
		theme:   cfg.Theme,
		storage: cfg.Storage,
		session: s,
		preset:  preset,
		config:  cfg,
		input:   input,
		meter:   newMeter(cfg.Theme, meterWidth(cfg.Width)),
		help:    h,
		keymap:  DefaultKeyMap(),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func newMeter(theme themes.Theme, width int) progress.Model {
	return progress.New(
		progress.WithGradient(theme.MeterStart, theme.MeterEnd),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

func meterWidth(termWidth int) int {
	return max(10, min(40, termWidth-30))
}

// Session returns the edited session.
func (m Model) Session() *session.Session { return m.session }

// Report returns the latest calculator report.
func (m Model) Report() calculator.Report { return m.report }

// Dirty reports whether there are unsaved changes.
func (m Model) Dirty() bool { return m.dirty }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.meter.Width = meterWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("save failed: %w", msg.err))
			return m, nil
		}
		m.dirty = false
		m.setStatus("Saved")
		return m, nil

	case statusMsg:
		m.status = msg.text
		if !msg.err {
			m.lastErr = nil
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.currentGroup()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.row < len(g.Entries)-1 {
			m.row++
		}

	case key.Matches(msg, m.keymap.PrevGroup):
		if m.group > 0 {
			m.group--
			m.row = 0
		}

	case key.Matches(msg, m.keymap.NextGroup):
		if m.group < len(m.session.Groups)-1 {
			m.group++
			m.row = 0
		}

	case key.Matches(msg, m.keymap.Edit):
		return m.startEditing(fieldLabel)

	case key.Matches(msg, m.keymap.AddEntry):
		if _, err := m.session.AddEntry(g.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.row = len(m.currentGroup().Entries) - 1
		m.changed()
		return m.startEditing(fieldLabel)

	case key.Matches(msg, m.keymap.AddGroup):
		added := m.session.AddGroup("")
		m.group, m.row = len(m.session.Groups)-1, 0
		m.changed()
		m.setStatus("Added " + added.Name)

	case key.Matches(msg, m.keymap.DeleteEntry):
		if len(g.Entries) == 0 {
			return m, nil
		}
		if err := m.session.RemoveEntry(g.ID, g.Entries[m.row].ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.row = min(m.row, len(m.currentGroup().Entries)-1)
		m.changed()

	case key.Matches(msg, m.keymap.DeleteGroup):
		if err := m.session.RemoveGroup(g.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.group, m.row = min(m.group, len(m.session.Groups)-1), 0
		m.changed()
		m.setStatus("Removed " + g.Name)

	case key.Matches(msg, m.keymap.Reset):
		m.session.Reset()
		m.group, m.row = 0, 0
		m.changed()
		m.setStatus("Cleared all entries")

	case key.Matches(msg, m.keymap.Save):
		return m, m.save()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.revert()
		m.editing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.Commit):
		if m.field == fieldWeight {
			m.editing = false
			m.input.Blur()
			return m, nil
		}
		return m.startEditing(m.field + 1)

	case key.Matches(msg, m.keymap.NextField):
		return m.startEditing((m.field + 1) % fieldCount)

	case key.Matches(msg, m.keymap.PrevField):
		return m.startEditing((m.field + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyInput()
	return m, cmd
}

// startEditing focuses the input on field f of the selected entry.
func (m Model) startEditing(f field) (tea.Model, tea.Cmd) {
	e, ok := m.currentEntry()
	if !ok {
		return m, nil
	}
	if !m.editing {
		m.snapshot = e
	}
	m.editing = true
	m.field = f

	switch f {
	case fieldLabel:
		m.input.Placeholder = m.preset.EntryLabel
		m.input.SetValue(e.Label)
	case fieldToken:
		m.input.Placeholder = m.preset.TokenLabel
		m.input.SetValue(e.Token)
	default:
		m.input.Placeholder = m.preset.WeightLabel
		if e.Weight == 0 {
			m.input.SetValue("")
		} else {
			m.input.SetValue(strconv.FormatFloat(e.Weight, 'f', -1, 64))
		}
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// applyInput writes the input value into the selected entry.
func (m *Model) applyInput() {
	e, ok := m.currentEntry()
	if !ok {
		return
	}
	value := m.input.Value()

	var u session.EntryUpdate
	switch m.field {
	case fieldLabel:
		u.Label = &value
	case fieldToken:
		u.Token = &value
	default:
		weight := 0.0
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			w, ok := grading.ParseWeight(trimmed)
			if !ok {
				m.setError(fmt.Errorf("%s must be a non-negative number", strings.ToLower(m.preset.WeightLabel)))
				return
			}
			weight = w
		}
		u.Weight = &weight
	}

	if _, err := m.session.UpdateEntry(m.currentGroup().ID, e.ID, u); err != nil {
		m.setError(err)
		return
	}
	m.lastErr = nil
	m.status = ""
	m.changed()
}

// revert restores the entry as it was before editing started.
func (m *Model) revert() {
	s := m.snapshot
	_, err := m.session.UpdateEntry(m.currentGroup().ID, s.ID, session.EntryUpdate{
		Label: &s.Label, Token: &s.Token, Weight: &s.Weight,
	})
	if err != nil {
		m.setError(err)
		return
	}
	m.changed()
}

func (m *Model) changed() {
	m.dirty = true
	if err := m.refresh(); err != nil {
		m.setError(err)
	}
}

func (m *Model) refresh() error {
	report, err := calculator.Evaluate(m.preset.Kind, m.session, m.config.Params)
	if err != nil {
		return err
	}
	m.report = report
	return nil
}

func (m Model) save() tea.Cmd {
	if m.storage == nil {
		return func() tea.Msg {
			return statusMsg{text: "Saving needs a database; start the editor from a stored session", err: true}
		}
	}
	snapshot := m.session.Clone()
	if snapshot.Name == "" {
		snapshot.Name = m.preset.Title
	}
	storage := m.storage
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{err: storage.SaveSession(ctx, snapshot)}
	}
}

func (m Model) currentGroup() model.Group {
	return m.session.Groups[m.group]
}

func (m Model) currentEntry() (model.Entry, bool) {
	g := m.currentGroup()
	if m.row < 0 || m.row >= len(g.Entries) {
		return model.Entry{}, false
	}
	return g.Entries[m.row], true
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.lastErr = nil
}

func (m *Model) setError(err error) {
	m.lastErr = err
	m.status = ""
}
