// Command labodraw plots X/Y column pairs of a CSV file as scatter or error
// bar series.
package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/alecthomas/kong"

	"github.com/user/labodraw/internal/console"
	"github.com/user/labodraw/internal/report"
)

// configPaths are the JSON files read for flag defaults, in order.
var configPaths = []string{"~/.config/labodraw.json", ".labodraw.json"}

// CLI is the command line of labodraw.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flag defaults from a JSON file." placeholder:"FILE"`

	Filename string `arg:"" help:"Input CSV file." type:"path"`

	Labels bool   `short:"l" help:"The first row holds column labels."`
	Errors bool   `short:"e" help:"A header row holds one error formula per column."`
	Delim  string `short:"d" default:"," help:"Column delimiter, one character (\\t for tab)."`

	XLabel string `name:"xlabel" help:"Horizontal axis label."`
	YLabel string `name:"ylabel" help:"Vertical axis label."`
	XUnits string `name:"xunits" help:"Horizontal axis unit, shown as [unit]."`
	YUnits string `name:"yunits" help:"Vertical axis unit, shown as [unit]."`
	Title  string `short:"t" help:"Plot title."`

	MarkerSize float64           `name:"markersize" short:"m" default:"50" help:"Scatter marker area in pt²."`
	Shape      []string          `short:"s" sep:"none" help:"Marker shape of the next series (o s ^ v D + x ring). Repeatable."`
	Param      map[string]string `short:"p" placeholder:"NAME=VALUE" help:"Parameter for the error formulas. Repeatable."`
	AllFit     bool              `name:"allfit" help:"Fit a least-squares line to every series."`
	Grid       bool              `default:"true" negatable:"" help:"Draw a background grid."`

	Export string  `placeholder:"PATH" help:"Also save the figure to PATH; the extension picks the format."`
	Report string  `placeholder:"PATH" help:"Write a PDF report to PATH."`
	Width  float64 `default:"6.4" help:"Figure width in inches."`
	Height float64 `default:"4.8" help:"Figure height in inches."`

	NoShow  bool `name:"no-show" help:"Do not open the figure in a viewer."`
	NoColor bool `name:"no-color" help:"Plain console output."`
	Quiet   bool `short:"q" help:"Only print warnings and errors."`
}

// Validate implements kong.Validatable.
func (c *CLI) Validate() error {
	if _, err := c.delimiter(); err != nil {
		return err
	}
	if c.Export != "" {
		if _, err := report.ExportFormat(c.Export); err != nil {
			return fmt.Errorf("--export: %w", err)
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", c.Width, c.Height)
	}
	return nil
}

func (c *CLI) delimiter() (rune, error) {
	if c.Delim == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delim) != 1 {
		return 0, fmt.Errorf("--delim must be a single character, got %q", c.Delim)
	}
	r, _ := utf8.DecodeRuneInString(c.Delim)
	return r, nil
}

func newGonumCanvas(width, height float64, viewer report.Viewer) report.Canvas {
	return report.NewGonumCanvas(width, height, viewer)
}

// run parses args and executes the pipeline, returning the exit status.
func run(args []string, stdout, stderr io.Writer, newCanvas CanvasFactory, viewer report.Viewer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("labodraw"),
		kong.Description("Plot X/Y column pairs from a CSV file, with optional labels and error bars."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, configPaths...),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	log := console.New(stdout, console.Options{NoColor: cli.NoColor, Quiet: cli.Quiet})
	if cli.NoShow {
		viewer = nil
	}
	app := NewApp(log, newCanvas, viewer)
	if err := app.Run(&cli); err != nil {
		app.Fail(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, newGonumCanvas, report.SystemViewer))
}
