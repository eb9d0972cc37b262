package report

import (
	"fmt"
	"math"

	"github.com/user/labodraw/internal/analysis"
)

// DefaultMarkerSize is the scatter marker area in pt², as matplotlib's s.
const DefaultMarkerSize = 50

// SeriesStyle controls how RenderSeries draws.
type SeriesStyle struct {
	Shapes     []Shape // per series, Circle past the end
	MarkerSize float64 // marker area in pt²
	Errors     bool    // draw error bars instead of plain points
}

// Finish holds the figure-wide settings applied by Finalize.
type Finish struct {
	Title          string
	XLabel, XUnits string
	YLabel, YUnits string
	Grid           bool
	ExportPath     string
}

// MarkerRadius converts a marker area in pt² to a radius in points.
func MarkerRadius(area float64) float64 {
	if area <= 0 {
		area = DefaultMarkerSize
	}
	return math.Sqrt(area) / 2
}

// AxisText joins an axis label and its unit as "label [unit]".
func AxisText(label, unit string) string {
	if unit != "" {
		label += fmt.Sprintf(" [%s]", unit)
	}
	return label
}

// RenderSeries draws every non-empty series in order on c.
func RenderSeries(c Canvas, series []analysis.Series, style SeriesStyle) error {
	radius := MarkerRadius(style.MarkerSize)
	for _, s := range series {
		if s.Len() == 0 {
			continue
		}
		ps := PointSet{
			Label:  s.Label,
			Index:  s.Index,
			Shape:  ShapeFor(style.Shapes, s.Index),
			Radius: radius,
			X:      s.X,
			Y:      s.Y,
		}

		var err error
		if style.Errors {
			ps.XErr, ps.YErr = s.XErr, s.YErr
			err = c.ErrorBars(ps)
		} else {
			err = c.Scatter(ps)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderFit draws fit as a line across the X range of s.
func RenderFit(c Canvas, s analysis.Series, fit analysis.Fit) error {
	if s.Len() == 0 {
		return nil
	}
	lo, hi := s.X[0], s.X[0]
	for _, x := range s.X[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	label := ""
	if s.Label != "" {
		label = "fit: " + s.Label
	}
	return c.Line(label, s.Index, []float64{lo, hi}, []float64{fit.At(lo), fit.At(hi)})
}

// Finalize applies axis text, title, legend and grid, then exports the figure
// when an export path is set. The display step is left to the caller so it
// can run last.
func Finalize(c Canvas, f Finish) error {
	c.SetAxisLabels(AxisText(f.XLabel, f.XUnits), AxisText(f.YLabel, f.YUnits))
	c.SetTitle(f.Title)
	c.Legend()
	c.Grid(f.Grid)

	if f.ExportPath != "" {
		if err := c.Save(f.ExportPath); err != nil {
			return fmt.Errorf("failed to export plot: %w", err)
		}
	}
	return nil
}
