package report

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/user/labodraw/internal/analysis"
)

// recorder is a Canvas that logs every call in order.
type recorder struct {
	calls   []string
	sets    []PointSet
	saveErr error
}

func (r *recorder) SetAxisLabels(x, y string) {
	r.calls = append(r.calls, fmt.Sprintf("axes %q %q", x, y))
}

func (r *recorder) SetTitle(title string) { r.calls = append(r.calls, fmt.Sprintf("title %q", title)) }

func (r *recorder) Scatter(ps PointSet) error {
	r.calls = append(r.calls, fmt.Sprintf("scatter %d", ps.Index))
	r.sets = append(r.sets, ps)
	return nil
}

func (r *recorder) ErrorBars(ps PointSet) error {
	r.calls = append(r.calls, fmt.Sprintf("errorbars %d", ps.Index))
	r.sets = append(r.sets, ps)
	return nil
}

func (r *recorder) Line(label string, index int, x, y []float64) error {
	r.calls = append(r.calls, fmt.Sprintf("line %q %d %v %v", label, index, x, y))
	return nil
}

func (r *recorder) Legend() { r.calls = append(r.calls, "legend") }

func (r *recorder) Grid(on bool) { r.calls = append(r.calls, fmt.Sprintf("grid %v", on)) }

func (r *recorder) Save(path string) error {
	r.calls = append(r.calls, "save "+path)
	return r.saveErr
}

func (r *recorder) Show() error {
	r.calls = append(r.calls, "show")
	return nil
}

func TestMarkerRadius(t *testing.T) {
	test.Float(t, MarkerRadius(36), 3)
	test.Float(t, MarkerRadius(0), math.Sqrt(DefaultMarkerSize)/2)
}

func TestAxisText(t *testing.T) {
	test.T(t, AxisText("Time", "s"), "Time [s]")
	test.T(t, AxisText("Time", ""), "Time")
	test.T(t, AxisText("", ""), "")
}

func TestRenderSeriesOrderAndShapes(t *testing.T) {
	series := []analysis.Series{
		{Index: 0, Label: "a", X: []float64{1, 2}, Y: []float64{3, 4}},
		{Index: 1, Label: "", X: nil, Y: nil, Excluded: 2},
		{Index: 2, Label: "", X: []float64{5}, Y: []float64{6}},
	}
	r := &recorder{}
	err := RenderSeries(r, series, SeriesStyle{Shapes: []Shape{Square}, MarkerSize: 16})
	test.Error(t, err)
	test.T(t, r.calls, []string{"scatter 0", "scatter 2"})
	test.T(t, r.sets[0].Shape, Square)
	test.T(t, r.sets[1].Shape, Circle)
	test.T(t, r.sets[1].Label, "")
	test.Float(t, r.sets[0].Radius, 2)
	test.That(t, r.sets[0].XErr == nil, "scatter received error magnitudes")
}

func TestRenderSeriesErrorBars(t *testing.T) {
	series := []analysis.Series{
		{Index: 0, Label: "a", X: []float64{1}, Y: []float64{2}, XErr: []float64{0.1}, YErr: []float64{0.2}},
	}
	r := &recorder{}
	test.Error(t, RenderSeries(r, series, SeriesStyle{Errors: true}))
	test.T(t, r.calls, []string{"errorbars 0"})
	test.T(t, r.sets[0].XErr, []float64{0.1})
	test.T(t, r.sets[0].YErr, []float64{0.2})
}

func TestRenderFit(t *testing.T) {
	s := analysis.Series{Index: 1, Label: "b", X: []float64{3, 1, 2}, Y: []float64{0, 0, 0}}
	r := &recorder{}
	test.Error(t, RenderFit(r, s, analysis.Fit{Intercept: 1, Slope: 2}))
	test.T(t, r.calls, []string{`line "fit: b" 1 [1 3] [3 7]`})

	r = &recorder{}
	s.Label = ""
	test.Error(t, RenderFit(r, s, analysis.Fit{}))
	test.That(t, strings.HasPrefix(r.calls[0], `line "" 1`), r.calls[0])
}

func TestFinalizeOrder(t *testing.T) {
	r := &recorder{}
	err := Finalize(r, Finish{Title: "T", XLabel: "x", XUnits: "m", YLabel: "y", Grid: true, ExportPath: "out.png"})
	test.Error(t, err)
	test.T(t, r.calls, []string{`axes "x [m]" "y"`, `title "T"`, "legend", "grid true", "save out.png"})
}

func TestFinalizeWithoutExport(t *testing.T) {
	r := &recorder{}
	test.Error(t, Finalize(r, Finish{}))
	for _, call := range r.calls {
		test.That(t, !strings.HasPrefix(call, "save"), "unexpected", call)
	}
}

func TestFinalizeExportError(t *testing.T) {
	r := &recorder{saveErr: fmt.Errorf("disk full")}
	err := Finalize(r, Finish{ExportPath: "out.png"})
	test.That(t, err != nil)
	test.That(t, strings.Contains(err.Error(), "disk full"), err)
}
