package api

import (
	"fmt"
	"net/http"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/labstack/echo/v4"
)

// KindResponse describes one calculator.
type KindResponse struct {
	Kind        calculator.Kind   `json:"kind"`
	Title       string            `json:"title"`
	Mode        model.GradingMode `json:"mode"`
	EntryLabel  string            `json:"entry_label"`
	TokenLabel  string            `json:"token_label"`
	WeightLabel string            `json:"weight_label"`
	Defaults    calculator.Params `json:"defaults"`
}

// ScaleResponse is a grade reference table.
type ScaleResponse struct {
	Mode        model.GradingMode  `json:"mode"`
	Description string             `json:"description"`
	Rows        []grading.ScaleRow `json:"rows"`
}

// ConvertResponse is an approximate 4.0 scale value.
type ConvertResponse struct {
	CGPA        float64 `json:"cgpa"`
	FourPoint   float64 `json:"four_point"`
	Class       string  `json:"class"`
	Approximate bool    `json:"approximate"`
}

func listKinds(ctx echo.Context) error {
	presets := calculator.Presets()
	out := make([]KindResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, KindResponse{
			Kind:        p.Kind,
			Title:       p.Title,
			Mode:        p.Mode,
			EntryLabel:  p.EntryLabel,
			TokenLabel:  p.TokenLabel,
			WeightLabel: p.WeightLabel,
			Defaults:    p.Defaults,
		})
	}
	return ctx.JSON(http.StatusOK, out)
}

func getScale(ctx echo.Context) error {
	var data scaleRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	mode, err := model.ParseGradingMode(data.Mode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ScaleResponse{
		Mode:        mode,
		Description: mode.Describe(),
		Rows:        grading.Scale(mode),
	})
}

func calculate(ctx echo.Context) error {
	kind, err := calculator.ParseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	var data CalculateRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}

	preset, err := calculator.PresetFor(kind)
	if err != nil {
		return err
	}
	s := buildSession(preset, data.Groups, data.Prior)
	report, err := calculator.Evaluate(kind, s, data.Params)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", kind, err)
	}
	return ctx.JSON(http.StatusOK, report)
}

func solveFinal(ctx echo.Context) error {
	var data FinalRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grading.SolveFinal(data.Current, data.FinalWeight, data.Target))
}

func solveFuture(ctx echo.Context) error {
	var data FutureRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	ceiling := data.Ceiling
	if ceiling == 0 {
		ceiling = grading.MaxGPA
	}
	out := grading.SolveFuture(data.Current, data.CurrentWeight, data.Target, data.FutureWeight, ceiling)
	return ctx.JSON(http.StatusOK, out)
}

func convert(ctx echo.Context) error {
	var data ConvertRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ConvertResponse{
		CGPA:        data.CGPA,
		FourPoint:   grading.Round(grading.ConvertScaleToFourPoint(data.CGPA), grading.SGPAPrecision),
		Class:       grading.CGPAClass(data.CGPA),
		Approximate: true,
	})
}
