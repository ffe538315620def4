package main

import (
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions", "s"},
		Short:   "Manage saved calculator sessions",
		Long: `Keep calculator sessions in the local database and edit them entry by entry.

Sessions are referred to by ID, unique ID prefix or name.`,
	}

	cmd.AddCommand(sessionNewCmd())
	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionShowCmd())
	cmd.AddCommand(sessionDeleteCmd())
	cmd.AddCommand(sessionAddEntryCmd())
	cmd.AddCommand(sessionUpdateEntryCmd())
	cmd.AddCommand(sessionRemoveEntryCmd())
	cmd.AddCommand(sessionAddGroupCmd())
	cmd.AddCommand(sessionRemoveGroupCmd())
	cmd.AddCommand(sessionPriorCmd())

	return cmd
}

// editSession loads ref, applies edit and saves the result.
func editSession(cmd *cobra.Command, ref string, edit func(s *session.Session) (string, error)) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	s, err := store.FindSession(ctx, ref)
	if err != nil {
		return err
	}
	msg, err := edit(s)
	if err != nil {
		return err
	}
	if err := store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	common.LogDebug("Session saved", common.Fields{"id": s.ID, "groups": len(s.Groups)})
	sum := s.Summary()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", cli.FormatSuccess(msg),
		cli.SubtleStyle.Render(fmt.Sprintf("%s: %s over %s", s.Name,
			cli.FormatScore(sum.Combined.Score, s.Mode), cli.FormatWeight(sum.Combined.Weight))))
	return err
}

func sessionNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <calculator> <name>",
		Short: "Create a session",
		Example: `  gpa session new college fall-2024 --entry "Calculus, A, 3"
  gpa session new sgpa-cgpa btech --group "Year 1: 8.2, 20; 8.8, 22"`,
		Args: cobra.ExactArgs(2),
		RunE: runSessionNew,
	}

	cmd.Flags().StringArrayP("entry", "e", nil, "entry as \"label, grade, weight\" (repeatable)")
	cmd.Flags().StringArrayP("group", "g", nil, "group as \"name: entry; entry\" (repeatable)")
	addPriorFlags(cmd)

	return cmd
}

func runSessionNew(cmd *cobra.Command, args []string) error {
	kind, err := calculator.ParseKind(args[0])
	if err != nil {
		return err
	}
	preset, err := calculator.PresetFor(kind)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args[1])
	if name == "" {
		return common.NewUserError("session name cannot be blank", common.ErrInvalidEntry)
	}
	prior, err := priorFromFlags(cmd)
	if err != nil {
		return err
	}

	s := preset.NewSession(session.WithName(name))
	entries, _ := cmd.Flags().GetStringArray("entry")
	groupFlags, _ := cmd.Flags().GetStringArray("group")

	var groups []model.Group
	count := 0
	if len(entries) > 0 {
		inputs := make([]cli.EntryInput, 0, len(entries))
		for _, line := range entries {
			in, err := cli.ParseEntryLine(line)
			if err != nil {
				return err
			}
			inputs = append(inputs, in)
		}
		groups = append(groups, inputGroup(s, preset, "", inputs, count))
		count += len(inputs)
	}
	for _, value := range groupFlags {
		gname, inputs, err := parseGroupFlag(value)
		if err != nil {
			return err
		}
		groups = append(groups, inputGroup(s, preset, gname, inputs, count))
		count += len(inputs)
	}
	if len(groups) > 0 {
		s.ReplaceGroups(groups)
	}
	s.SetPrior(prior)

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveSession(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n",
		cli.FormatSuccess(fmt.Sprintf("Created %s session %q", preset.Title, s.Name)),
		cli.SubtleStyle.Render("id "+s.ID))
	return err
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved sessions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			infos, err := store.ListSessions(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(infos) == 0 {
				_, err := fmt.Fprintln(w, cli.FormatInfo("No sessions yet. Create one with `gpa session new`."))
				return err
			}

			var b strings.Builder
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				cli.TableHeaderStyle.Width(10).Render("ID"),
				cli.TableHeaderStyle.Width(24).Render("Name"),
				cli.TableHeaderStyle.Width(15).Render("Calculator"),
				cli.TableHeaderStyle.Width(9).Render("Entries"),
				cli.TableHeaderStyle.Render("Updated"),
			))
			b.WriteString("\n")
			for _, info := range infos {
				b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
					cli.TableCellStyle.Width(10).Render(shortID(info.ID)),
					cli.TableCellStyle.Width(24).Render(info.Name),
					cli.TableCellStyle.Width(15).Render(info.Kind),
					cli.TableCellStyle.Width(9).Render(fmt.Sprint(info.Entries)),
					cli.TableCellStyle.Render(info.UpdatedAt.Local().Format("2006-01-02 15:04")),
				))
				b.WriteString("\n")
			}
			_, err = fmt.Fprint(w, b.String())
			return err
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sessionShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Show a session's report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			s, err := store.FindSession(ctx, args[0])
			if err != nil {
				return err
			}
			kind, err := sessionKind(s)
			if err != nil {
				return err
			}
			params, err := paramsFromFlags(cmd, kind)
			if err != nil {
				return err
			}
			return renderSession(cmd, s, params)
		},
	}
	addParamFlags(cmd)
	return cmd
}

func sessionDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <session>",
		Aliases: []string{"rm"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			s, err := store.FindSession(ctx, args[0])
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				if _, err := fmt.Fprint(cmd.OutOrStdout(),
					cli.FormatPrompt(fmt.Sprintf("Delete session %q (%d entries)? [y/N]", s.Name, len(s.Entries())))); err != nil {
					return err
				}
				answer, err := cli.NewLineReader(cmd.InOrStdin()).ReadLine(ctx)
				if err != nil || (!strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes")) {
					_, werr := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Kept."))
					return werr
				}
			}

			if err := store.DeleteSession(ctx, s.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted session %q", s.Name)))
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "delete without asking")
	return cmd
}

func sessionAddEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add-entry <session> <entry>",
		Short:   "Add an entry to a group",
		Example: `  gpa session add-entry fall-2024 "Chemistry, B, 4" --group 2`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cli.ParseEntryLine(args[1])
			if err != nil {
				return err
			}
			groupRef, _ := cmd.Flags().GetString("group")

			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				g := s.Groups[len(s.Groups)-1]
				if groupRef != "" {
					found, err := findGroup(s, groupRef)
					if err != nil {
						return "", err
					}
					g = found
				}
				preset, err := presetOf(s)
				if err != nil {
					return "", err
				}
				label, err := placeEntry(s, preset, g.ID, in)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added %s to %s", label, g.Name), nil
			})
		},
	}
	cmd.Flags().String("group", "", "group ID, name or position (default: last group)")
	return cmd
}

func sessionUpdateEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update-entry <session> <entry>",
		Short:   "Change an entry's label, grade or weight",
		Example: `  gpa session update-entry fall-2024 Physics --grade A-`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u session.EntryUpdate
			flags := cmd.Flags()
			if flags.Changed("label") {
				v, _ := flags.GetString("label")
				u.Label = &v
			}
			if flags.Changed("grade") {
				v, _ := flags.GetString("grade")
				u.Token = &v
			}
			if flags.Changed("weight") {
				v, _ := flags.GetFloat64("weight")
				if v < 0 {
					return common.NewUserError("weight cannot be negative", common.ErrInvalidEntry)
				}
				u.Weight = &v
			}
			if u.Label == nil && u.Token == nil && u.Weight == nil {
				return common.NewUserError("nothing to update; pass --label, --grade or --weight", common.ErrInvalidEntry)
			}

			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				g, e, err := findEntry(s, args[1])
				if err != nil {
					return "", err
				}
				updated, err := s.UpdateEntry(g.ID, e.ID, u)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Updated %s: %s, %s", updated.Label, updated.Token, cli.FormatWeight(updated.Weight)), nil
			})
		},
	}
	cmd.Flags().String("label", "", "new label")
	cmd.Flags().String("grade", "", "new grade")
	cmd.Flags().Float64("weight", 0, "new weight")
	return cmd
}

func sessionRemoveEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-entry <session> <entry>",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				g, e, err := findEntry(s, args[1])
				if err != nil {
					return "", err
				}
				if err := s.RemoveEntry(g.ID, e.ID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Removed %s from %s", e.Label, g.Name), nil
			})
		},
	}
}

func sessionAddGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-group <session> [name]",
		Short: "Add a group",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				g := s.AddGroup(name)
				return "Added " + g.Name, nil
			})
		},
	}
}

func sessionRemoveGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-group <session> <group>",
		Short: "Remove a group and its entries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				g, err := findGroup(s, args[1])
				if err != nil {
					return "", err
				}
				if err := s.RemoveGroup(g.ID); err != nil {
					return "", err
				}
				return "Removed " + g.Name, nil
			})
		},
	}
}

func sessionPriorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prior <session>",
		Short:   "Set or clear the prior GPA and credits",
		Example: `  gpa session prior fall-2024 --prior-score 3.4 --prior-weight 45`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearPrior, _ := cmd.Flags().GetBool("clear")
			prior, err := priorFromFlags(cmd)
			if err != nil {
				return err
			}
			if prior == nil && !clearPrior {
				return common.NewUserError("pass --prior-score and --prior-weight, or --clear", common.ErrInvalidEntry)
			}

			return editSession(cmd, args[0], func(s *session.Session) (string, error) {
				if clearPrior {
					s.SetPrior(nil)
					return "Cleared the prior", nil
				}
				s.SetPrior(prior)
				return fmt.Sprintf("Prior set to %s over %s", cli.FormatScore(prior.Score, s.Mode), cli.FormatWeight(prior.Weight)), nil
			})
		},
	}
	addPriorFlags(cmd)
	cmd.Flags().Bool("clear", false, "remove the prior")
	return cmd
}

func presetOf(s *session.Session) (calculator.Preset, error) {
	kind, err := sessionKind(s)
	if err != nil {
		return calculator.Preset{}, err
	}
	return calculator.PresetFor(kind)
}
