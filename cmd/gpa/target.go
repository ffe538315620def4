package main

import (
	"fmt"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/cli"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type finalTargetInput struct {
	Current     float64 `json:"current" validate:"gte=0,lte=100"`
	FinalWeight float64 `json:"final_weight" validate:"gt=0,lte=100"`
	Target      float64 `json:"target" validate:"gte=0"`
}

type gpaTargetInput struct {
	Current        float64 `json:"current" validate:"gte=0"`
	CurrentCredits float64 `json:"current_credits" validate:"gte=0"`
	Target         float64 `json:"target" validate:"gte=0"`
	FutureCredits  float64 `json:"future_credits" validate:"gt=0"`
	Ceiling        float64 `json:"ceiling" validate:"gt=0"`
}

func targetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Work out the score a goal needs",
		Long: `Solve for the score still needed to reach a goal: the final exam percentage for a
course grade, or the average over future credits for a GPA.`,
	}

	cmd.AddCommand(targetFinalCmd())
	cmd.AddCommand(targetGPACmd())

	return cmd
}

func targetFinalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "final",
		Short:   "Score needed on the final exam",
		Example: `  gpa target final --current 85 --final-weight 25 --target 90`,
		Args:    cobra.NoArgs,
		RunE:    runTargetFinal,
	}

	cmd.Flags().Float64("current", 0, "current grade in percent")
	cmd.Flags().Float64("final-weight", 0, "weight of the final in percent (default from final.weight)")
	cmd.Flags().Float64("target", 0, "desired course grade in percent (default from final.target)")
	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func runTargetFinal(cmd *cobra.Command, _ []string) error {
	in := finalTargetInput{
		Current:     mustFloat(cmd, "current"),
		FinalWeight: floatOr(cmd, "final-weight", viper.GetFloat64("final.weight"), calculator.DefaultFinalWeight),
		Target:      floatOr(cmd, "target", viper.GetFloat64("final.target"), calculator.DefaultFinalTarget),
	}
	if err := validateInput(in); err != nil {
		return err
	}

	out := grading.SolveFinal(in.Current, in.FinalWeight, in.Target)
	p := calculator.Params{Target: in.Target, FinalWeight: in.FinalWeight}
	w := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(w, cli.RenderFinalOutlook(out, p)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, cli.Meter(out.Meter, grading.MaxPercentage, cli.MeterWidth))
	return err
}

func targetGPACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gpa",
		Short:   "Average needed over future credits",
		Example: `  gpa target gpa --current 3.2 --current-credits 60 --target 3.5 --future-credits 30`,
		Args:    cobra.NoArgs,
		RunE:    runTargetGPA,
	}

	cmd.Flags().Float64("current", 0, "current GPA")
	cmd.Flags().Float64("current-credits", 0, "credits behind the current GPA")
	cmd.Flags().Float64("target", 0, "desired GPA (default from planning.target)")
	cmd.Flags().Float64("future-credits", 0, "credits still to be taken (default from planning.future_credits)")
	cmd.Flags().Float64("ceiling", grading.MaxGPA, "best average the scale allows")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("current-credits")

	return cmd
}

func runTargetGPA(cmd *cobra.Command, _ []string) error {
	in := gpaTargetInput{
		Current:        mustFloat(cmd, "current"),
		CurrentCredits: mustFloat(cmd, "current-credits"),
		Target:         floatOr(cmd, "target", viper.GetFloat64("planning.target"), calculator.DefaultPlanningTarget),
		FutureCredits:  floatOr(cmd, "future-credits", viper.GetFloat64("planning.future_credits"), calculator.DefaultFutureCredits),
		Ceiling:        mustFloat(cmd, "ceiling"),
	}
	if err := validateInput(in); err != nil {
		return err
	}

	out := grading.SolveFuture(in.Current, in.CurrentCredits, in.Target, in.FutureCredits, in.Ceiling)
	p := calculator.Params{Target: in.Target, FutureWeight: in.FutureCredits}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderFutureOutlook(out, p, in.Ceiling))
	return err
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

// floatOr returns the flag when it was set, else the first positive fallback.
func floatOr(cmd *cobra.Command, name string, fallbacks ...float64) float64 {
	if cmd.Flags().Changed(name) {
		return mustFloat(cmd, name)
	}
	for _, v := range fallbacks {
		if v > 0 {
			return v
		}
	}
	return 0
}
