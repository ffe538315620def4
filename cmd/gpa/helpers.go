package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/api"
	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/config"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/PROGPA/gpacalculaters/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the session database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// validateInput checks a struct carrying validate tags and turns failures into
// one readable message.
func validateInput(v any) error {
	val := api.NewValidator()
	err := val.Validate(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := val.Translate(verrs)
	msgs := make([]string, 0, len(fields))
	for _, msg := range fields {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return common.NewUserError("invalid input", errors.New(strings.Join(msgs, "; ")))
}

// addParamFlags registers the flags that feed calculator.Params.
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("target", 0, "target grade or GPA (final-grade, gpa-planning, cumulative)")
	cmd.Flags().Float64("final-weight", 0, "weight of the final exam in percent (final-grade)")
	cmd.Flags().Float64("future-weight", 0, "credits still to be taken (cumulative)")
	cmd.Flags().Bool("use-credits", false, "weight middle school grades by credits")
}

// paramsFromFlags reads the param flags. Unset flags fall back to the configured
// defaults, and anything still zero to the calculator's own.
func paramsFromFlags(cmd *cobra.Command, kind calculator.Kind) (calculator.Params, error) {
	flags := cmd.Flags()
	target, _ := flags.GetFloat64("target")
	finalWeight, _ := flags.GetFloat64("final-weight")
	futureWeight, _ := flags.GetFloat64("future-weight")
	useCredits, _ := flags.GetBool("use-credits")

	if !flags.Changed("target") {
		switch kind {
		case calculator.FinalGrade:
			target = viper.GetFloat64("final.target")
		case calculator.GPAPlanning:
			target = viper.GetFloat64("planning.target")
		}
	}
	if !flags.Changed("final-weight") {
		finalWeight = viper.GetFloat64("final.weight")
	}
	if !flags.Changed("future-weight") {
		futureWeight = viper.GetFloat64("planning.future_credits")
	}

	p := calculator.Params{
		Target:       target,
		FinalWeight:  finalWeight,
		FutureWeight: futureWeight,
		UseCredits:   useCredits,
	}
	if err := validateInput(p); err != nil {
		return calculator.Params{}, err
	}
	return p, nil
}

// priorFromFlags returns the prior set by --prior-score and --prior-weight, or nil
// when neither was given.
func priorFromFlags(cmd *cobra.Command) (*model.Prior, error) {
	flags := cmd.Flags()
	if !flags.Changed("prior-score") && !flags.Changed("prior-weight") {
		return nil, nil
	}
	score, _ := flags.GetFloat64("prior-score")
	weight, _ := flags.GetFloat64("prior-weight")
	if score < 0 || weight <= 0 || math.IsInf(score, 0) || math.IsInf(weight, 0) || math.IsNaN(score) || math.IsNaN(weight) {
		return nil, common.NewUserError("invalid prior", fmt.Errorf("%w: score must be non-negative and weight positive", common.ErrInvalidEntry))
	}
	return &model.Prior{Score: score, Weight: weight}, nil
}

func addPriorFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("prior-score", 0, "previously earned GPA or CGPA")
	cmd.Flags().Float64("prior-weight", 0, "credits behind the prior score")
}

// parseGroupFlag parses "Name: label, grade, weight; label, grade, weight". The
// name is optional.
func parseGroupFlag(value string) (string, []cli.EntryInput, error) {
	name, rest := "", value
	if i := strings.Index(value, ":"); i >= 0 {
		name, rest = strings.TrimSpace(value[:i]), value[i+1:]
	}
	var inputs []cli.EntryInput
	for _, part := range strings.Split(rest, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		in, err := cli.ParseEntryLine(part)
		if err != nil {
			return "", nil, err
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return "", nil, fmt.Errorf("%w: group %q has no entries", common.ErrInvalidEntry, value)
	}
	return name, inputs, nil
}

// inputGroup builds a group from parsed inputs. Missing labels are numbered from
// offset+1 and missing weights take the layout default.
func inputGroup(s *session.Session, preset calculator.Preset, name string, inputs []cli.EntryInput, offset int) model.Group {
	g := model.Group{Name: name}
	for i, in := range inputs {
		in = in.Labeled(fmt.Sprintf("%s %d", preset.EntryLabel, offset+i+1))
		if !in.HasWeight {
			in.Weight = s.Layout.DefaultWeight
		}
		g.Entries = append(g.Entries, model.Entry{Label: in.Label, Token: in.Token, Weight: in.Weight})
	}
	return g
}

// findEntry locates an entry by ID, ID prefix or label.
func findEntry(s *session.Session, ref string) (model.Group, model.Entry, error) {
	ref = strings.TrimSpace(ref)
	var (
		matches []model.Entry
		groups  []model.Group
	)
	for _, g := range s.Groups {
		for _, e := range g.Entries {
			if e.ID == ref {
				return g, e, nil
			}
			if strings.HasPrefix(e.ID, ref) || strings.EqualFold(e.Label, ref) {
				matches = append(matches, e)
				groups = append(groups, g)
			}
		}
	}
	switch len(matches) {
	case 0:
		return model.Group{}, model.Entry{}, fmt.Errorf("entry %q: %w", ref, common.ErrNotFound)
	case 1:
		return groups[0], matches[0], nil
	default:
		return model.Group{}, model.Entry{}, fmt.Errorf("entry %q matches %d entries: %w", ref, len(matches), common.ErrDuplicateEntry)
	}
}

// findGroup locates a group by ID, ID prefix, name or 1-based position.
func findGroup(s *session.Session, ref string) (model.Group, error) {
	ref = strings.TrimSpace(ref)
	var matches []model.Group
	for i, g := range s.Groups {
		if g.ID == ref || fmt.Sprint(i+1) == ref {
			return g, nil
		}
		if strings.HasPrefix(g.ID, ref) || strings.EqualFold(g.Name, ref) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return model.Group{}, fmt.Errorf("group %q: %w", ref, common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Group{}, fmt.Errorf("group %q matches %d groups: %w", ref, len(matches), common.ErrDuplicateEntry)
	}
}

// sessionKind returns the calculator a stored session belongs to.
func sessionKind(s *session.Session) (calculator.Kind, error) {
	kind, err := calculator.ParseKind(s.Kind)
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("session %s has no usable calculator", s.Name), err)
	}
	return kind, nil
}

// renderSession evaluates s with p and prints the report.
func renderSession(cmd *cobra.Command, s *session.Session, p calculator.Params) error {
	kind, err := sessionKind(s)
	if err != nil {
		return err
	}
	report, err := calculator.Evaluate(kind, s, p)
	if err != nil {
		return err
	}
	return cli.RenderReport(cmd.OutOrStdout(), s, report)
}

// placeEntry writes in into the first blank entry of the group, adding an entry
// when there is none. It returns the label the entry ended up with.
func placeEntry(s *session.Session, preset calculator.Preset, groupID string, in cli.EntryInput) (string, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return "", err
	}

	pos := -1
	for i, e := range g.Entries {
		if strings.TrimSpace(e.Token) == "" && strings.TrimSpace(e.Label) == "" {
			pos = i
			break
		}
	}
	var entryID string
	if pos >= 0 {
		entryID = g.Entries[pos].ID
	} else {
		e, err := s.AddEntry(groupID)
		if err != nil {
			return "", err
		}
		entryID, pos = e.ID, len(g.Entries)
	}

	in = in.Labeled(fmt.Sprintf("%s %d", preset.EntryLabel, pos+1))
	if err := in.Apply(s, groupID, entryID); err != nil {
		return "", err
	}
	return in.Label, nil
}
