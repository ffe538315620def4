package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/config"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// gradeRow is one data row of an import file.
type gradeRow struct {
	Line  int
	Group string
	Input cli.EntryInput
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <session> <file.csv>",
		Short: "Import entries from a CSV file",
		Long: `Import entries into a saved session from a CSV file with the columns

  group,label,grade,weight

A header row is optional. Rows land in the group with the same name, which is created
when missing; an empty group column means the session's last group. With --kind a
missing session is created under the given name.`,
		Example: `  gpa import fall-2024 transcript.csv
  gpa import btech semesters.csv --kind sgpa-cgpa`,
		Args: cobra.ExactArgs(2),
		RunE: runImport,
	}

	cmd.Flags().String("kind", "", "create the session with this calculator when it does not exist")
	cmd.Flags().Bool("dry-run", false, "show the result without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ref, path := args[0], config.ExpandPath(args[1])
	kindFlag, _ := cmd.Flags().GetString("kind")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	f, err := os.Open(path)
	if err != nil {
		return common.NewUserError("cannot open import file", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := readGradeCSV(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return common.NewUserError(fmt.Sprintf("%s has no rows", args[1]), common.ErrInvalidEntry)
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, err := store.FindSession(cmd.Context(), ref)
	switch {
	case errors.Is(err, common.ErrNotFound) && kindFlag != "":
		kind, kerr := calculator.ParseKind(kindFlag)
		if kerr != nil {
			return kerr
		}
		preset, _ := calculator.PresetFor(kind)
		s = preset.NewSession(session.WithName(ref))
		common.LogInfo("Creating session", common.Fields{"name": ref, "calculator": kind})
	case err != nil:
		return err
	}
	preset, err := presetOf(s)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
	ctx := handler.HandleInterrupts(cmd.Context(), "Nothing was saved.")

	out := cmd.OutOrStdout()
	bar := newImportBar(out, len(rows))
	fresh := !hasContent(s)
	for i, row := range rows {
		if ctx.Err() != nil {
			if handler.WasInterrupted() {
				return nil
			}
			return ctx.Err()
		}
		if err := applyRow(s, preset, row, fresh && i == 0); err != nil {
			return err
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	trimBlankEntries(s)

	if dryRun {
		if _, err := fmt.Fprintln(out, cli.FormatWarning("Dry run mode - not saving to database")); err != nil {
			return err
		}
		return renderSession(cmd, s, calculator.Params{})
	}

	if err := store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	common.LogInfo("Import complete", common.Fields{"session": s.Name, "rows": len(rows)})
	if _, err := fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d entries into %q", len(rows), s.Name))); err != nil {
		return err
	}
	return renderSession(cmd, s, calculator.Params{})
}

func newImportBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing entries...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// readGradeCSV parses group,label,grade,weight rows. A first row whose grade
// column reads "grade" is taken as a header.
func readGradeCSV(r io.Reader) ([]gradeRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []gradeRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, common.NewUserError("malformed CSV", err)
		}
		if line == 1 && len(rec) >= 3 && strings.EqualFold(strings.TrimSpace(rec[2]), "grade") {
			continue
		}
		if len(rec) != 4 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want group,label,grade,weight",
				common.ErrInvalidEntry, line, len(rec))
		}

		in := cli.EntryInput{Label: strings.TrimSpace(rec[1]), Token: strings.TrimSpace(rec[2])}
		if in.Token == "" {
			return nil, fmt.Errorf("%w: line %d has no grade", common.ErrInvalidEntry, line)
		}
		if w := strings.TrimSpace(rec[3]); w != "" {
			weight, ok := grading.ParseWeight(w)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: weight %q is not a non-negative number", common.ErrInvalidEntry, line, w)
			}
			in.Weight, in.HasWeight = weight, true
		}
		rows = append(rows, gradeRow{Line: line, Group: strings.TrimSpace(rec[0]), Input: in})
	}
	return rows, nil
}

// applyRow places a row in its group. When first is set the session's untouched
// default group is renamed after the row's group instead of adding another.
func applyRow(s *session.Session, preset calculator.Preset, row gradeRow, first bool) error {
	g := s.Groups[len(s.Groups)-1]
	if row.Group != "" {
		found := false
		for _, candidate := range s.Groups {
			if strings.EqualFold(candidate.Name, row.Group) {
				g, found = candidate, true
				break
			}
		}
		switch {
		case found:
		case first:
			if err := s.RenameGroup(g.ID, row.Group); err != nil {
				return err
			}
		default:
			g = s.AddGroup(row.Group)
		}
	}
	if _, err := placeEntry(s, preset, g.ID, row.Input); err != nil {
		return fmt.Errorf("line %d: %w", row.Line, err)
	}
	return nil
}

// hasContent reports whether any entry carries a label or grade.
func hasContent(s *session.Session) bool {
	for _, e := range s.Entries() {
		if strings.TrimSpace(e.Label) != "" || strings.TrimSpace(e.Token) != "" {
			return true
		}
	}
	return false
}

// trimBlankEntries drops untouched entries and groups left empty by the import.
func trimBlankEntries(s *session.Session) {
	for gi := len(s.Groups) - 1; gi >= 0; gi-- {
		g := s.Groups[gi]
		for i := len(g.Entries) - 1; i >= 0; i-- {
			e := g.Entries[i]
			if strings.TrimSpace(e.Label) != "" || strings.TrimSpace(e.Token) != "" {
				continue
			}
			if err := s.RemoveEntry(g.ID, e.ID); err != nil {
				// the last entry of a group stays; drop the group instead
				_ = s.RemoveGroup(g.ID)
			}
		}
	}
}
