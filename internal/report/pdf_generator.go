package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"codeberg.org/go-fonts/liberation/liberationsansbold"
	"codeberg.org/go-fonts/liberation/liberationsansregular"
	"github.com/jung-kurt/gofpdf"

	"github.com/user/labodraw/internal/analysis"
)

const (
	inchToMm              = 25.4
	pdfPageWidthPortrait  = 8.5 * inchToMm // Letter portrait
	pdfPageHeightPortrait = 11 * inchToMm
	pdfMargin             = 0.5 * inchToMm
	pdfContentWidth       = pdfPageWidthPortrait - (2 * pdfMargin)
	plotImageName         = "figure"

	// pdfFont is a UTF-8 TrueType family, so labels outside cp1252 print.
	pdfFont = "LiberationSans"
)

// ReportInput is everything printed in the PDF report.
type ReportInput struct {
	Title      string
	Source     string // input file path
	XAxis      string
	YAxis      string
	Plot       []byte  // PNG of the figure
	PlotAspect float64 // height / width of the figure
	Series     []analysis.Series
	Fits       map[int]analysis.Fit // by series index
	Formulas   []string             // per column, nil when errors are disabled
	Parameters analysis.Parameters
	Failures   int // formula evaluations that fell back to 0.0
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	pdf.AddUTF8FontFromBytes(pdfFont, "", liberationsansregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", liberationsansbold.TTF)
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightPortrait - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont(pdfFont, "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont(pdfFont, "B", 13)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont(pdfFont, "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont(pdfFont, "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont(pdfFont, "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont(pdfFont, "B", 10)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitText(text, pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	s.checkAddPage(height)
	s.pdf.ImageOptions(imageName, pdfMargin+(pdfContentWidth-width)/2, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height
	s.addSpacer(3)
}

// writeTable draws headers and rows with column widths given as fractions of
// the content width, breaking pages between rows.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	header := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.pdf.AddPage()
			s.currentY = s.contentTopY
			header()
		}
		s.applyStyle("tableCell")
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
	s.addSpacer(4)
}

// BuildPDFReport writes a one-figure measurement report to filepath.
func BuildPDFReport(filepath string, in ReportInput) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	title := in.Title
	if title == "" {
		title = "Measurement Plot"
	}
	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Data file: %s", in.Source), "normal", "L")
	if in.XAxis != "" || in.YAxis != "" {
		styler.writeParagraph(fmt.Sprintf("Axes: %s vs. %s", orDash(in.YAxis), orDash(in.XAxis)), "normal", "L")
	}
	styler.addSpacer(3)

	if len(in.Plot) > 0 {
		aspect := in.PlotAspect
		if aspect <= 0 {
			aspect = DefaultHeight / DefaultWidth
		}
		width := pdfContentWidth * 0.9
		styler.addImage(in.Plot, plotImageName, width, width*aspect)
	} else {
		styler.writeParagraph("Plot not available.", "normal", "L")
	}

	styler.writeParagraph("Series", "h2", "L")
	if len(in.Series) == 0 {
		styler.writeParagraph("No series were drawn.", "normal", "L")
	} else {
		styler.writeTable(
			[]string{"#", "Label", "Points", "Excluded", "X range", "Y range", "Fit a + b*x", "R²"},
			[]float64{0.05, 0.19, 0.08, 0.09, 0.17, 0.17, 0.17, 0.08},
			seriesRows(in.Series, in.Fits),
		)
	}

	if in.Formulas != nil {
		styler.writeParagraph("Error Formulas", "h2", "L")
		rows := make([][]string, 0, len(in.Formulas))
		for c, f := range in.Formulas {
			axis := "X"
			if c%2 == 1 {
				axis = "Y"
			}
			rows = append(rows, []string{strconv.Itoa(c + 1), fmt.Sprintf("%s of series %d", axis, c/2+1), orDash(f)})
		}
		styler.writeTable([]string{"Column", "Role", "Formula"}, []float64{0.12, 0.28, 0.6}, rows)

		if len(in.Parameters) > 0 {
			names := make([]string, 0, len(in.Parameters))
			for name := range in.Parameters {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, formatValue(in.Parameters[name])})
			}
			styler.writeParagraph("Parameters", "h2", "L")
			styler.writeTable([]string{"Name", "Value"}, []float64{0.4, 0.6}, rows)
		}

		if in.Failures > 0 {
			styler.writeParagraph(fmt.Sprintf("%d error formula evaluations failed and were drawn as 0.", in.Failures), "warning", "L")
		}
	}

	return pdf.OutputFileAndClose(filepath)
}

func seriesRows(series []analysis.Series, fits map[int]analysis.Fit) [][]string {
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		row := []string{
			strconv.Itoa(s.Index + 1),
			orDash(s.Label),
			strconv.Itoa(s.Len()),
			strconv.Itoa(s.Excluded),
			valueRange(s.X),
			valueRange(s.Y),
			"-",
			"-",
		}
		if fit, ok := fits[s.Index]; ok {
			row[6] = fmt.Sprintf("%s + %s*x", formatValue(fit.Intercept), formatValue(fit.Slope))
			row[7] = fmt.Sprintf("%.4f", fit.RSquared)
		}
		rows = append(rows, row)
	}
	return rows
}

func valueRange(values []float64) string {
	if len(values) == 0 {
		return "-"
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return fmt.Sprintf("%s .. %s", formatValue(lo), formatValue(hi))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
