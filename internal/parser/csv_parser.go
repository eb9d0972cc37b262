package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Dataset is everything read from one input file.
type Dataset struct {
	Path    string
	Grid    *RawGrid
	Data    *DataMatrix
	Headers Headers

	// Warnings are suspicious but readable input, in file order.
	Warnings []string
}

// Load reads the CSV file at path. kinds declares the header rows at the top
// of the file; that many rows are skipped before the numeric data region.
func Load(path string, delim rune, kinds []HeaderKind) (*Dataset, error) {
	grid, err := ReadFile(path, delim)
	if err != nil {
		return nil, err
	}

	data, err := ParseData(grid, len(kinds))
	if err != nil {
		return nil, err
	}

	headers, err := ExtractHeaders(grid, kinds, data.NumColumns())
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Path: path, Grid: grid, Data: data, Headers: headers}
	if first := grid.Rows[len(kinds)]; mixedRow(first) {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("line %d: first data row %q mixes text and numbers; it may be an undeclared header row",
			grid.Lines[len(kinds)], strings.Join(first, " ")))
	}
	return ds, nil
}

// ReadFile reads the whole file at path into a RawGrid. The file handle is
// released before parsing starts.
func ReadFile(path string, delim rune) (*RawGrid, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat CSV file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	return ReadGrid(bytes.NewReader(content), delim)
}

// ReadGrid splits every record of r on delim. Blank lines and lines starting
// with '#' are skipped; cells are trimmed of surrounding whitespace.
func ReadGrid(r io.Reader, delim rune) (*RawGrid, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	if delim != '#' {
		reader.Comment = '#'
	}
	reader.TrimLeadingSpace = !unicode.IsSpace(delim)
	reader.FieldsPerRecord = -1 // row widths are checked by ParseData

	grid := &RawGrid{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &DataFormatError{Line: line, Reason: "malformed CSV", Err: err}
		}

		line, _ := reader.FieldPos(0)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		grid.Rows = append(grid.Rows, row)
		grid.Lines = append(grid.Lines, line)
	}
	return grid, nil
}

// ParseData converts the rows after the first skip rows into a DataMatrix.
// Cells that are empty or not a finite number are stored as missing.
func ParseData(grid *RawGrid, skip int) (*DataMatrix, error) {
	if len(grid.Rows) < skip {
		return nil, &DataFormatError{Reason: fmt.Sprintf("%d header rows declared but the file has only %d rows", skip, len(grid.Rows))}
	}
	rows := grid.Rows[skip:]
	if len(rows) == 0 {
		return nil, &DataFormatError{Reason: "no data rows"}
	}

	width := len(rows[0])
	data := NewDataMatrix(width, len(rows))
	for r, row := range rows {
		line := grid.Lines[skip+r]
		if len(row) != width {
			return nil, &DataFormatError{Line: line, Reason: fmt.Sprintf("expected %d columns, found %d", width, len(row))}
		}

		numeric := 0
		for c, s := range row {
			if v, ok := parseCell(s); ok {
				data.Columns[c][r] = Cell{Value: v, Present: true}
				numeric++
			}
		}
		// A first data row without a single number is an undeclared header.
		if r == 0 && numeric == 0 {
			return nil, &DataFormatError{Line: line, Reason: fmt.Sprintf("could not convert %q to numbers", strings.Join(row, " "))}
		}
	}

	if width < 2 {
		return nil, ErrTooFewColumns
	}
	if width%2 != 0 {
		return nil, fmt.Errorf("%w: found %d columns", ErrOddColumns, width)
	}
	return data, nil
}

// ExtractHeaders returns the header rows named by kinds, where kinds[i]
// occupies grid row i. Rows are padded or cut to columns cells.
func ExtractHeaders(grid *RawGrid, kinds []HeaderKind, columns int) (Headers, error) {
	headers := Headers{Labels: make([]string, columns)}
	for i, kind := range kinds {
		if i >= len(grid.Rows) {
			return Headers{}, &DataFormatError{Reason: fmt.Sprintf("missing %s header row", kind)}
		}
		row := fitRow(grid.Rows[i], columns)
		switch kind {
		case HeaderLabels:
			if allNumeric(grid.Rows[i]) {
				return Headers{}, &DataFormatError{Line: grid.Lines[i], Reason: "labels row holds only numbers; the file seems to have no labels row"}
			}
			headers.Labels = row
		case HeaderErrors:
			headers.Formulas = row
		default:
			return Headers{}, fmt.Errorf("unknown header kind: %s", kind)
		}
	}
	return headers, nil
}

func parseCell(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func allNumeric(row []string) bool {
	seen := false
	for _, s := range row {
		if s == "" {
			continue
		}
		if _, ok := parseCell(s); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// mixedRow reports whether row has both numeric cells and non-empty text
// cells.
func mixedRow(row []string) bool {
	var numeric, text bool
	for _, s := range row {
		if s == "" {
			continue
		}
		if _, ok := parseCell(s); ok {
			numeric = true
		} else {
			text = true
		}
	}
	return numeric && text
}

func fitRow(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}
