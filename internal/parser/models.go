package parser

import (
	"errors"
	"fmt"
)

// MissingSentinel is the value stored in a missing cell. It is never used in
// arithmetic; check Cell.Present instead.
const MissingSentinel = 1e20

// ConfigurationError sentinels.
var (
	ErrFileNotFound  = errors.New("file does not exist")
	ErrTooFewColumns = errors.New("there are less than two data columns; nothing to show")
	ErrOddColumns    = errors.New("data columns must come in X/Y pairs")
)

// DataFormatError reports a data region that cannot be read as numbers.
type DataFormatError struct {
	Line   int // 1-based line in the input file, 0 when not tied to a line
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// HeaderKind names a leading row that holds text instead of data.
type HeaderKind string

const (
	HeaderLabels HeaderKind = "labels"
	HeaderErrors HeaderKind = "errors"
)

// HeaderKinds returns the enabled header kinds in file order: labels always
// precede errors.
func HeaderKinds(labels, formulas bool) []HeaderKind {
	kinds := make([]HeaderKind, 0, 2)
	if labels {
		kinds = append(kinds, HeaderLabels)
	}
	if formulas {
		kinds = append(kinds, HeaderErrors)
	}
	return kinds
}

// RawGrid is every non-comment line of the file split on the delimiter.
type RawGrid struct {
	Rows  [][]string
	Lines []int // source line of each row
}

// Cell is one numeric value. Present is false when the source text was empty
// or not a number.
type Cell struct {
	Value   float64
	Present bool
}

// Column holds one column of the data region, one Cell per row.
type Column []Cell

// DataMatrix is the numeric data region stored column-major.
type DataMatrix struct {
	Columns []Column
	Rows    int
}

// NewDataMatrix allocates a matrix of the given shape with every cell missing.
func NewDataMatrix(columns, rows int) *DataMatrix {
	m := &DataMatrix{Columns: make([]Column, columns), Rows: rows}
	for c := range m.Columns {
		m.Columns[c] = make(Column, rows)
		for r := range m.Columns[c] {
			m.Columns[c][r] = Cell{Value: MissingSentinel}
		}
	}
	return m
}

// NumColumns returns the column count.
func (m *DataMatrix) NumColumns() int { return len(m.Columns) }

// NumSeries returns the number of X/Y column pairs.
func (m *DataMatrix) NumSeries() int { return len(m.Columns) / 2 }

// Missing reports whether the cell at column c, row r has no value.
func (m *DataMatrix) Missing(c, r int) bool { return !m.Columns[c][r].Present }

// Mask returns the missing-value mask with the same shape as the matrix.
func (m *DataMatrix) Mask() [][]bool {
	mask := make([][]bool, len(m.Columns))
	for c, col := range m.Columns {
		mask[c] = make([]bool, len(col))
		for r, cell := range col {
			mask[c][r] = !cell.Present
		}
	}
	return mask
}

// Headers holds the text rows extracted from the top of the file.
type Headers struct {
	Labels   []string // one per column, empty strings when labels are disabled
	Formulas []string // one per column, nil when errors are disabled
}

// HasFormulas reports whether an error-formula row was extracted.
func (h Headers) HasFormulas() bool { return h.Formulas != nil }
