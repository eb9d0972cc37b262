package main

import (
	"errors"
	"fmt"

	"github.com/user/labodraw/internal/analysis"
	"github.com/user/labodraw/internal/console"
	"github.com/user/labodraw/internal/parser"
	"github.com/user/labodraw/internal/report"
)

const labelsHint = "If the first row is dedicated to labels, consider using -l option."

// CanvasFactory creates the drawing surface for one run.
type CanvasFactory func(width, height float64, viewer report.Viewer) report.Canvas

// App runs the load, evaluate, draw and finish pipeline for one CSV file.
type App struct {
	log       *console.Logger
	newCanvas CanvasFactory
	viewer    report.Viewer
}

// NewApp creates a new App. A nil viewer disables the display step.
func NewApp(log *console.Logger, newCanvas CanvasFactory, viewer report.Viewer) *App {
	return &App{log: log, newCanvas: newCanvas, viewer: viewer}
}

// Run plots the file named by cli. Only the fatal kinds are returned: a
// missing file, too few or unpaired columns, and unreadable data. Everything
// else, including a failed export or report, is logged and the run continues
// to the display step.
func (a *App) Run(cli *CLI) error {
	delim, err := cli.delimiter()
	if err != nil {
		return err
	}

	ds, err := parser.Load(cli.Filename, delim, parser.HeaderKinds(cli.Labels, cli.Errors))
	if errors.Is(err, parser.ErrFileNotFound) {
		return err
	}
	a.log.OK("The file exists.")
	if err != nil {
		return err
	}
	a.log.Info("Read %d rows of %d columns from %s.", ds.Data.Rows, ds.Data.NumColumns(), ds.Path)
	for _, w := range ds.Warnings {
		a.log.Warn("%s", w)
		if !cli.Labels {
			a.log.Warn("%s", labelsHint)
		}
	}

	if !cli.Labels {
		a.log.Warn("Labels are not assigned.")
	}

	params, paramErrs := analysis.ParseParameters(cli.Param)
	for _, e := range paramErrs {
		a.log.Warn("%v", e)
	}
	if len(cli.Param) > 0 && !cli.Errors {
		a.log.Warn("Parameters are only used by error formulas; pass -e to enable them.")
	}

	var errs *analysis.ErrorMatrix
	failures := 0
	if cli.Errors {
		res, err := analysis.EvaluateErrors(ds.Data, ds.Headers.Formulas, params)
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			a.log.Error("%v", f)
		}
		errs = res.Errors
		failures = len(res.Failures)
	}

	series := analysis.CollectSeries(ds.Data, errs, ds.Headers.Labels)
	shapes := a.parseShapes(cli.Shape, len(series))
	for _, s := range series {
		switch {
		case s.Len() == 0:
			a.log.Warn("Series %d has no complete rows; nothing to draw.", s.Index+1)
		case s.Excluded > 0:
			a.log.Info("Series %d: %d rows with missing values excluded.", s.Index+1, s.Excluded)
		}
	}

	canvas := a.newCanvas(cli.Width, cli.Height, a.viewer)
	style := report.SeriesStyle{Shapes: shapes, MarkerSize: cli.MarkerSize, Errors: cli.Errors}
	if err := report.RenderSeries(canvas, series, style); err != nil {
		return fmt.Errorf("failed to draw series: %w", err)
	}

	fits := make(map[int]analysis.Fit)
	if cli.AllFit {
		for _, s := range series {
			fit, err := analysis.FitLine(s)
			if err != nil {
				a.log.Warn("Series %d not fitted: %v", s.Index+1, err)
				continue
			}
			a.log.Info("Series %d fit: y = %g + %g*x, R² = %.4f", s.Index+1, fit.Intercept, fit.Slope, fit.RSquared)
			fits[s.Index] = fit
			if err := report.RenderFit(canvas, s, fit); err != nil {
				return fmt.Errorf("failed to draw fit of series %d: %w", s.Index+1, err)
			}
		}
	}

	err = report.Finalize(canvas, report.Finish{
		Title:      cli.Title,
		XLabel:     cli.XLabel,
		XUnits:     cli.XUnits,
		YLabel:     cli.YLabel,
		YUnits:     cli.YUnits,
		Grid:       cli.Grid,
		ExportPath: cli.Export,
	})
	switch {
	case err != nil:
		a.log.Error("%v", err)
	case cli.Export != "":
		a.log.OK("Plot saved to %s.", cli.Export)
	}

	if cli.Report != "" {
		in := report.ReportInput{
			Title:      cli.Title,
			Source:     cli.Filename,
			XAxis:      report.AxisText(cli.XLabel, cli.XUnits),
			YAxis:      report.AxisText(cli.YLabel, cli.YUnits),
			PlotAspect: cli.Height / cli.Width,
			Series:     series,
			Fits:       fits,
			Parameters: params,
			Failures:   failures,
		}
		if cli.Errors {
			in.Formulas = ds.Headers.Formulas
		}
		a.writeReport(canvas, cli.Report, in)
	}

	if err := canvas.Show(); err != nil {
		a.log.Warn("Could not open the plot: %v", err)
	}
	return nil
}

// Fail logs a fatal error returned by Run.
func (a *App) Fail(err error) {
	a.log.Error("%v", err)
	var dfe *parser.DataFormatError
	if errors.As(err, &dfe) {
		a.log.Error("%s", labelsHint)
	}
}

// parseShapes converts the marker codes, warning about unknown codes and
// codes beyond the last series.
func (a *App) parseShapes(codes []string, numSeries int) []report.Shape {
	shapes := make([]report.Shape, 0, len(codes))
	for i, code := range codes {
		shape, ok := report.ParseShape(code)
		if !ok {
			a.log.Warn("Unknown marker shape %q for series %d; using %s.", code, i+1, shape)
		}
		shapes = append(shapes, shape)
	}
	if len(codes) > numSeries {
		a.log.Warn("%d marker shapes given for %d series; the rest are ignored.", len(codes), numSeries)
	}
	return shapes
}

// writeReport builds the PDF report. A failure is logged, since the figure
// itself has been drawn.
func (a *App) writeReport(canvas report.Canvas, path string, in report.ReportInput) {
	if img, ok := canvas.(report.Imager); ok {
		png, err := img.PNG()
		if err != nil {
			a.log.Warn("Plot image unavailable for the report: %v", err)
		}
		in.Plot = png
	}

	if err := report.BuildPDFReport(path, in); err != nil {
		a.log.Error("Error generating PDF report: %v", err)
		return
	}
	a.log.OK("PDF report successfully generated: %s", path)
}
