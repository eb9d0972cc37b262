package analysis

import (
	"errors"
	"fmt"
)

// Parameters binds user-declared names to values for every error formula.
type Parameters map[string]float64

// ErrInvalidName is reported for a parameter name that formulas cannot refer to.
var ErrInvalidName = errors.New("not a valid identifier")

// ParameterError is a parameter that could not be used as given. Its value
// falls back to 0.0.
type ParameterError struct {
	Name  string
	Value string
	Err   error
}

func (e ParameterError) Error() string {
	if errors.Is(e.Err, ErrInvalidName) {
		return fmt.Sprintf("parameter %q is %v; it is ignored", e.Name, e.Err)
	}
	return fmt.Sprintf("parameter %s: could not convert %q to a float, using 0.0", e.Name, e.Value)
}

func (e ParameterError) Unwrap() error { return e.Err }

// FormulaError is a formula that failed for one cell, or for a whole column
// when Row is -1. The affected cells are 0.0.
type FormulaError struct {
	Column int
	Row    int
	Expr   string
	Err    error
}

func (e FormulaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("column %d: formula %q: %v", e.Column+1, e.Expr, e.Err)
	}
	return fmt.Sprintf("column %d, row %d: formula %q: %v", e.Column+1, e.Row+1, e.Expr, e.Err)
}

func (e FormulaError) Unwrap() error { return e.Err }

// ErrorMatrix holds one error magnitude per data cell, column-major.
type ErrorMatrix struct {
	Columns [][]float64
}

// NewErrorMatrix returns an all-zero matrix of the given shape.
func NewErrorMatrix(columns, rows int) *ErrorMatrix {
	m := &ErrorMatrix{Columns: make([][]float64, columns)}
	for c := range m.Columns {
		m.Columns[c] = make([]float64, rows)
	}
	return m
}

// At returns the error at column c, row r.
func (m *ErrorMatrix) At(c, r int) float64 { return m.Columns[c][r] }

// ErrorResults is the outcome of evaluating the error formulas.
type ErrorResults struct {
	Errors   *ErrorMatrix
	Failures []FormulaError
}

// Series is one X/Y column pair with its missing rows removed.
type Series struct {
	Index    int // series number; columns 2*Index and 2*Index+1
	Label    string
	X, Y     []float64
	XErr     []float64 // nil when errors are disabled
	YErr     []float64
	Excluded int // rows dropped because X or Y was missing
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.X) }

// HasErrors reports whether the series carries error magnitudes.
func (s Series) HasErrors() bool { return s.XErr != nil && s.YErr != nil }

// Fit is a least-squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64
	Slope     float64
	RSquared  float64
	Weighted  bool // weighted by 1/σy²
}

// At evaluates the line at x.
func (f Fit) At(x float64) float64 { return f.Intercept + f.Slope*x }
