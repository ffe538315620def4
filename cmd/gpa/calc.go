package main

import (
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <calculator>",
		Short: "Run a calculator once",
		Long: fmt.Sprintf(`Run one of the calculators over entries given as flags or typed in.

Calculators: %s

Entries are "label, grade, weight", "grade, weight" or just "grade". Use --entry for a
single group or --group "Fall: Calculus, A, 3; Physics, B+, 4" for named groups. Without
entries the calculator asks for them line by line.`, kindList()),
		Example: `  gpa calc college --entry "Calculus, A, 3" --entry "Physics, B+, 4" --prior-score 3.5 --prior-weight 60
  gpa calc final-grade --entry "Midterm, B+, 40" --entry "Homework, A, 60" --target 90 --final-weight 25
  gpa calc sgpa-cgpa --group "Year 1: 8.2, 20; 8.8, 22" --group "Year 2: 9.1, 21"`,
		Args: cobra.ExactArgs(1),
		RunE: runCalc,
	}

	cmd.Flags().StringArrayP("entry", "e", nil, "entry as \"label, grade, weight\" (repeatable)")
	cmd.Flags().StringArrayP("group", "g", nil, "group as \"name: entry; entry\" (repeatable)")
	cmd.Flags().BoolP("interactive", "i", false, "type entries in even when flags are given")
	addPriorFlags(cmd)
	addParamFlags(cmd)

	return cmd
}

func kindList() string {
	names := make([]string, 0, len(calculator.AllKinds))
	for _, k := range calculator.AllKinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func runCalc(cmd *cobra.Command, args []string) error {
	kind, err := calculator.ParseKind(args[0])
	if err != nil {
		return err
	}
	preset, err := calculator.PresetFor(kind)
	if err != nil {
		return err
	}
	params, err := paramsFromFlags(cmd, kind)
	if err != nil {
		return err
	}
	prior, err := priorFromFlags(cmd)
	if err != nil {
		return err
	}

	entries, _ := cmd.Flags().GetStringArray("entry")
	groupFlags, _ := cmd.Flags().GetStringArray("group")
	interactive, _ := cmd.Flags().GetBool("interactive")

	s := preset.NewSession()
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
		name, inputs, err := parseGroupFlag(value)
		if err != nil {
			return err
		}
		groups = append(groups, inputGroup(s, preset, name, inputs, count))
		count += len(inputs)
	}

	if len(groups) > 0 {
		s.ReplaceGroups(groups)
	}
	if prior != nil {
		s.SetPrior(prior)
	}

	if len(groups) == 0 || interactive {
		if len(groups) > 0 {
			s.AddGroup("")
		}
		handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Calculation")
		ctx := handler.HandleInterrupts(cmd.Context(), "Nothing was saved.")
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		if err := prompter.FillSession(ctx, s, preset); err != nil {
			if handler.WasInterrupted() {
				return nil
			}
			return err
		}
	}

	common.LogDebug("Evaluating", common.Fields{"calculator": kind, "groups": len(s.Groups), "entries": len(s.Entries())})
	report, err := calculator.Evaluate(kind, s, params)
	if err != nil {
		return err
	}
	return cli.RenderReport(cmd.OutOrStdout(), s, report)
}
