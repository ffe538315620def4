package main

import (
	"fmt"
	"strconv"

	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/spf13/cobra"
)

type convertInput struct {
	CGPA float64 `json:"cgpa" validate:"gte=0,lte=10"`
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <cgpa>",
		Short: "Convert a 10 point CGPA to the 4.0 scale",
		Long: `Convert a 10 point CGPA to an approximate 4.0 scale GPA with (cgpa - 0.75) / 2.25.

The result is a rough orientation only. Institutions use their own conversion tables.`,
		Example: `  gpa convert 8.6`,
		Args:    cobra.ExactArgs(1),
		RunE:    runConvert,
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a number", args[0]), err)
	}
	in := convertInput{CGPA: v}
	if err := validateInput(in); err != nil {
		return err
	}

	four := grading.Round(grading.ConvertScaleToFourPoint(in.CGPA), grading.SGPAPrecision)
	content := fmt.Sprintf("%s CGPA  →  %s on the 4.0 scale (approx.)\nClass: %s",
		cli.BoldStyle.Render(strconv.FormatFloat(in.CGPA, 'f', 2, 64)),
		cli.BoldStyle.Render(strconv.FormatFloat(four, 'f', 2, 64)),
		grading.CGPAClass(in.CGPA))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Conversion", content))
	return err
}

func scaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale [mode]",
		Short: "Show a grading scale",
		Long: `Show the reference table of a grading mode: letter, percent-letter, missed,
sgpa or percent. Without a mode every table is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScale,
	}
}

func runScale(cmd *cobra.Command, args []string) error {
	modes := model.AllModes
	if len(args) == 1 {
		mode, err := model.ParseGradingMode(args[0])
		if err != nil {
			return err
		}
		modes = []model.GradingMode{mode}
	}
	for _, mode := range modes {
		if err := cli.RenderScale(cmd.OutOrStdout(), mode); err != nil {
			return err
		}
	}
	return nil
}
