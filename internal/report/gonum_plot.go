package report

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/browser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// DefaultWidth and DefaultHeight are the figure size in inches.
	DefaultWidth  = 6.4
	DefaultHeight = 4.8

	errorCapWidth  = 6 // points
	errorLineWidth = 1 // points
)

// Viewer opens a rendered image file for the user.
type Viewer func(path string) error

// SystemViewer opens path with the desktop's default application.
func SystemViewer(path string) error {
	return browser.OpenFile(path)
}

// GonumCanvas draws onto a gonum plot. Nothing is rendered until Save, PNG
// or Show is called, so the grid always sits behind the data.
type GonumCanvas struct {
	width, height vg.Length
	viewer        Viewer

	title, xLabel, yLabel string
	items                 []plot.Plotter
	entries               []legendEntry
	legend                bool
	grid                  bool

	lastSaved string

	// PreviewPath is where Show renders when nothing was saved. Each run
	// overwrites it.
	PreviewPath string
}

type legendEntry struct {
	label string
	thumb plot.Thumbnailer
}

// errorPoints carries the data for a pair of X and Y error bar plotters.
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
	plotter.YErrors
}

// NewGonumCanvas returns a canvas of the given size in inches. A nil viewer
// makes Show a no-op.
func NewGonumCanvas(width, height float64, viewer Viewer) *GonumCanvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &GonumCanvas{
		width:       vg.Length(width) * vg.Inch,
		height:      vg.Length(height) * vg.Inch,
		viewer:      viewer,
		PreviewPath: DefaultPreviewPath(),
	}
}

// DefaultPreviewPath is the preview file in the user's cache directory, or in
// the temporary directory when there is none.
func DefaultPreviewPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "labodraw", "preview.png")
}

// ExportFormat returns the image format named by the extension of path, png
// when there is none. Unknown extensions are an error.
func ExportFormat(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		return "png", nil
	}
	if formats := draw.Formats(); !slices.Contains(formats, format) {
		return "", fmt.Errorf("unsupported export format %q, use one of %s", format, strings.Join(formats, ", "))
	}
	return format, nil
}

func (c *GonumCanvas) SetAxisLabels(x, y string) {
	c.xLabel, c.yLabel = x, y
}

func (c *GonumCanvas) SetTitle(title string) {
	c.title = title
}

func (c *GonumCanvas) Scatter(ps PointSet) error {
	s, err := c.newScatter(ps)
	if err != nil {
		return err
	}
	c.items = append(c.items, s)
	c.addEntry(ps.Label, s)
	return nil
}

func (c *GonumCanvas) ErrorBars(ps PointSet) error {
	if len(ps.XErr) != len(ps.X) || len(ps.YErr) != len(ps.Y) {
		return fmt.Errorf("series %d: %d points but %d/%d errors", ps.Index+1, len(ps.X), len(ps.XErr), len(ps.YErr))
	}

	pts := errorPoints{
		XYs:     toXYs(ps.X, ps.Y),
		XErrors: make(plotter.XErrors, len(ps.X)),
		YErrors: make(plotter.YErrors, len(ps.Y)),
	}
	for i := range ps.X {
		pts.XErrors[i].Low, pts.XErrors[i].High = ps.XErr[i], ps.XErr[i]
		pts.YErrors[i].Low, pts.YErrors[i].High = ps.YErr[i], ps.YErr[i]
	}

	xbars, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return fmt.Errorf("failed to create X error bars for series %d: %w", ps.Index+1, err)
	}
	ybars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return fmt.Errorf("failed to create Y error bars for series %d: %w", ps.Index+1, err)
	}
	col := plotutil.Color(ps.Index)
	xbars.LineStyle.Color = col
	xbars.LineStyle.Width = vg.Points(errorLineWidth)
	xbars.CapWidth = vg.Points(errorCapWidth)
	ybars.LineStyle.Color = col
	ybars.LineStyle.Width = vg.Points(errorLineWidth)
	ybars.CapWidth = vg.Points(errorCapWidth)

	s, err := c.newScatter(ps)
	if err != nil {
		return err
	}
	c.items = append(c.items, xbars, ybars, s)
	c.addEntry(ps.Label, s)
	return nil
}

func (c *GonumCanvas) Line(label string, index int, x, y []float64) error {
	line, err := plotter.NewLine(toXYs(x, y))
	if err != nil {
		return fmt.Errorf("failed to create line %q: %w", label, err)
	}
	line.Color = plotutil.Color(index)
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	c.items = append(c.items, line)
	c.addEntry(label, line)
	return nil
}

func (c *GonumCanvas) Legend() { c.legend = true }

func (c *GonumCanvas) Grid(on bool) { c.grid = on }

// Save writes the figure to path in the format named by its extension,
// PNG when there is none.
func (c *GonumCanvas) Save(path string) error {
	format, err := ExportFormat(path)
	if err != nil {
		return err
	}
	buf, err := c.render(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write plot to %s: %w", path, err)
	}
	c.lastSaved = path
	return nil
}

// PNG renders the figure as PNG bytes.
func (c *GonumCanvas) PNG() ([]byte, error) {
	return c.render("png")
}

// Show opens the last saved file with the viewer. When nothing was saved the
// figure is rendered to PreviewPath first.
func (c *GonumCanvas) Show() error {
	if c.viewer == nil {
		return nil
	}

	path := c.lastSaved
	if path == "" {
		path = c.PreviewPath
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create preview directory: %w", err)
		}
		if err := c.Save(path); err != nil {
			return err
		}
	}
	return c.viewer(path)
}

func (c *GonumCanvas) render(format string) ([]byte, error) {
	p := plot.New()
	p.Title.Text = c.title
	p.X.Label.Text = c.xLabel
	p.Y.Label.Text = c.yLabel

	if c.grid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = color.Gray{Y: 200}
		grid.Horizontal.Color = color.Gray{Y: 200}
		p.Add(grid)
	}
	p.Add(c.items...)

	if c.legend {
		for _, e := range c.entries {
			p.Legend.Add(e.label, e.thumb)
		}
		p.Legend.Top = true
		p.Legend.XOffs = -vg.Points(10)
	}

	writer, err := p.WriterTo(c.width, c.height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

func (c *GonumCanvas) newScatter(ps PointSet) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(toXYs(ps.X, ps.Y))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter for series %d: %w", ps.Index+1, err)
	}
	s.GlyphStyle.Shape = glyphFor(ps.Shape)
	s.GlyphStyle.Color = plotutil.Color(ps.Index)
	s.GlyphStyle.Radius = vg.Points(ps.Radius)
	return s, nil
}

func (c *GonumCanvas) addEntry(label string, thumb plot.Thumbnailer) {
	if label != "" {
		c.entries = append(c.entries, legendEntry{label: label, thumb: thumb})
	}
}

func toXYs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
