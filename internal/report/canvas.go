package report

// PointSet is one series handed to a Canvas. XErr and YErr are only read by
// ErrorBars.
type PointSet struct {
	Label  string // legend text; empty means no legend entry
	Index  int    // series number, selects the color
	Shape  Shape
	Radius float64 // marker radius in points
	X, Y   []float64
	XErr   []float64
	YErr   []float64
}

// Canvas is the set of drawing primitives the pipeline needs from a plotting
// backend.
type Canvas interface {
	SetAxisLabels(x, y string)
	SetTitle(title string)
	Scatter(ps PointSet) error
	ErrorBars(ps PointSet) error
	Line(label string, index int, x, y []float64) error
	Legend()
	Grid(on bool)
	Save(path string) error
	Show() error
}

// Imager is implemented by canvases that can render themselves to PNG bytes.
type Imager interface {
	PNG() ([]byte, error)
}
