package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/session"
)

// EntryInput is one parsed "label, token, weight" line.
type EntryInput struct {
	Label  string
	Token  string
	Weight float64
	// HasWeight is false when the line omitted the weight.
	HasWeight bool
}

// ParseEntryLine parses "token", "token, weight" or "label, token, weight".
func ParseEntryLine(line string) (EntryInput, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var in EntryInput
	var weight string
	switch len(parts) {
	case 1:
		in.Token = parts[0]
	case 2:
		in.Token, weight = parts[0], parts[1]
	case 3:
		in.Label, in.Token, weight = parts[0], parts[1], parts[2]
	default:
		return EntryInput{}, fmt.Errorf("%w: expected \"label, grade, weight\", got %q", common.ErrInvalidEntry, line)
	}
	if in.Token == "" {
		return EntryInput{}, fmt.Errorf("%w: missing grade in %q", common.ErrInvalidEntry, line)
	}
	if weight != "" {
		w, ok := grading.ParseWeight(weight)
		if !ok {
			return EntryInput{}, fmt.Errorf("%w: weight %q is not a non-negative number", common.ErrInvalidEntry, weight)
		}
		in.Weight, in.HasWeight = w, true
	}
	return in, nil
}

// Labeled returns the input with label filled in when the line had none.
func (in EntryInput) Labeled(label string) EntryInput {
	if in.Label == "" {
		in.Label = label
	}
	return in
}

// Apply writes the input into an existing entry of s.
func (in EntryInput) Apply(s *session.Session, groupID, entryID string) error {
	u := session.EntryUpdate{Token: &in.Token}
	if in.Label != "" {
		u.Label = &in.Label
	}
	if in.HasWeight {
		u.Weight = &in.Weight
	}
	_, err := s.UpdateEntry(groupID, entryID, u)
	return err
}

// Prompter collects entries line by line from a terminal.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: NewLineReader(reader), writer: writer}
}

// FillSession reads entries into s until "done" or end of input. A blank line
// closes the current group and starts the next one. Invalid lines are reported
// and skipped.
func (p *Prompter) FillSession(ctx context.Context, s *session.Session, preset calculator.Preset) error {
	if _, err := fmt.Fprintln(p.writer, FormatTitle(preset.Title)); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	hint := fmt.Sprintf("Enter \"%s, %s, %s\" per line. Blank line: next %s. \"done\": finish.",
		strings.ToLower(preset.EntryLabel), strings.ToLower(preset.TokenLabel),
		strings.ToLower(preset.WeightLabel), strings.ToLower(s.Layout.GroupPrefix))
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render(hint)); err != nil {
		return fmt.Errorf("failed to write hint: %w", err)
	}

	gi, filled := len(s.Groups)-1, 0
	for {
		g := s.Groups[gi]
		if _, err := fmt.Fprint(p.writer, FormatPrompt(fmt.Sprintf("%s #%d", g.Name, filled+1))); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case "done", "q", "quit":
			return p.finish(s, gi, filled)
		case "":
			if filled == 0 {
				continue
			}
			p.trimGroup(s, gi, filled)
			s.AddGroup("")
			gi, filled = len(s.Groups)-1, 0
			continue
		}

		in, err := ParseEntryLine(line)
		if err != nil {
			if _, werr := fmt.Fprintln(p.writer, FormatError(err.Error())); werr != nil {
				return fmt.Errorf("failed to write error: %w", werr)
			}
			continue
		}

		var entryID string
		if filled < len(s.Groups[gi].Entries) {
			entryID = s.Groups[gi].Entries[filled].ID
		} else {
			e, err := s.AddEntry(g.ID)
			if err != nil {
				return err
			}
			entryID = e.ID
		}
		in = in.Labeled(fmt.Sprintf("%s %d", preset.EntryLabel, filled+1))
		if err := in.Apply(s, g.ID, entryID); err != nil {
			return err
		}
		filled++

		status := p.status(s, gi, entryID)
		if _, err := fmt.Fprintln(p.writer, status); err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
	}
	_, _ = fmt.Fprintln(p.writer)
	return p.finish(s, gi, filled)
}

func (p *Prompter) status(s *session.Session, gi int, entryID string) string {
	g := s.Groups[gi]
	for _, e := range g.Entries {
		if e.ID == entryID && !grading.IsCounted(e, s.Mode) {
			return FormatWarning("Not counted: the entry needs a positive weight and a valid grade.")
		}
	}
	agg := g.Aggregate()
	return SubtleStyle.Render(fmt.Sprintf("  %s: %s over %s", g.Name, FormatScore(agg.Score, s.Mode), FormatWeight(agg.Weight)))
}

// finish drops an empty trailing group and the unused blanks of the last one.
func (p *Prompter) finish(s *session.Session, gi, filled int) error {
	if filled == 0 && len(s.Groups) > 1 {
		return s.RemoveGroup(s.Groups[gi].ID)
	}
	p.trimGroup(s, gi, filled)
	return nil
}

// trimGroup removes blank entries after the first filled ones. Entries a caller
// filled before prompting are kept.
func (p *Prompter) trimGroup(s *session.Session, gi, filled int) {
	g := s.Groups[gi]
	for i := len(g.Entries) - 1; i >= filled && i > 0; i-- {
		e := g.Entries[i]
		if strings.TrimSpace(e.Token) != "" || grading.IsCounted(e, s.Mode) {
			continue
		}
		_ = s.RemoveEntry(g.ID, e.ID)
	}
}
