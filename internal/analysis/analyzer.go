package analysis

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/user/labodraw/internal/formula"
	"github.com/user/labodraw/internal/parser"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrTooFewPoints is returned when a series cannot be fitted.
var ErrTooFewPoints = errors.New("a fit needs at least two distinct X values")

// ParseParameters converts raw NAME=VALUE strings to floats. A value that is
// not a float becomes 0.0 and is reported; an unusable name is reported and
// skipped.
func ParseParameters(raw map[string]string) (Parameters, []ParameterError) {
	params := make(Parameters, len(raw))
	var errs []ParameterError

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := raw[name]
		if !identRe.MatchString(name) {
			errs = append(errs, ParameterError{Name: name, Value: value, Err: ErrInvalidName})
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			errs = append(errs, ParameterError{Name: name, Value: value, Err: err})
			v = 0
		}
		params[name] = v
	}
	return params, errs
}

// EvaluateErrors evaluates formulas[c] for every row of column c with X and Y
// bound to the row's pair values and every parameter bound by name. Failing
// cells are 0.0 and recorded; they never stop the evaluation. Rows where X or
// Y is missing are left at 0.0.
func EvaluateErrors(data *parser.DataMatrix, formulas []string, params Parameters) (*ErrorResults, error) {
	if data == nil || data.NumColumns() == 0 {
		return nil, fmt.Errorf("data matrix is nil or empty, cannot evaluate errors")
	}
	if len(formulas) != data.NumColumns() {
		return nil, fmt.Errorf("got %d error formulas for %d columns", len(formulas), data.NumColumns())
	}

	results := &ErrorResults{Errors: NewErrorMatrix(data.NumColumns(), data.Rows)}

	vars := make(formula.Vars, len(params)+2)
	for name, v := range params {
		vars[name] = v
	}

	for c, src := range formulas {
		if strings.TrimSpace(src) == "" {
			continue
		}
		expr, err := formula.Compile(src)
		if err != nil {
			results.Failures = append(results.Failures, FormulaError{Column: c, Row: -1, Expr: src, Err: err})
			continue
		}

		x, y := c-c%2, c-c%2+1
		for r := 0; r < data.Rows; r++ {
			if data.Missing(x, r) || data.Missing(y, r) {
				continue
			}
			vars["X"] = data.Columns[x][r].Value
			vars["Y"] = data.Columns[y][r].Value

			v, err := expr.Eval(vars)
			if err != nil {
				results.Failures = append(results.Failures, FormulaError{Column: c, Row: r, Expr: src, Err: err})
				continue
			}
			results.Errors.Columns[c][r] = math.Abs(v)
		}
	}
	return results, nil
}

// CollectSeries pairs up the columns of data, dropping every row where X or Y
// is missing. errs may be nil when errors are disabled.
func CollectSeries(data *parser.DataMatrix, errs *ErrorMatrix, labels []string) []Series {
	series := make([]Series, 0, data.NumSeries())
	for i := 0; i < data.NumSeries(); i++ {
		xc, yc := 2*i, 2*i+1
		s := Series{Index: i}
		if xc < len(labels) {
			s.Label = labels[xc]
		}
		if errs != nil {
			s.XErr, s.YErr = []float64{}, []float64{}
		}

		for r := 0; r < data.Rows; r++ {
			if data.Missing(xc, r) || data.Missing(yc, r) {
				s.Excluded++
				continue
			}
			s.X = append(s.X, data.Columns[xc][r].Value)
			s.Y = append(s.Y, data.Columns[yc][r].Value)
			if errs != nil {
				s.XErr = append(s.XErr, errs.At(xc, r))
				s.YErr = append(s.YErr, errs.At(yc, r))
			}
		}
		series = append(series, s)
	}
	return series
}

// FitLine fits a least-squares line through the series. When the series has
// Y errors and all of them are positive, points are weighted by 1/σy².
func FitLine(s Series) (Fit, error) {
	if s.Len() < 2 {
		return Fit{}, ErrTooFewPoints
	}

	var weights []float64
	if s.HasErrors() {
		weights = make([]float64, len(s.YErr))
		for i, e := range s.YErr {
			if e <= 0 {
				weights = nil
				break
			}
			weights[i] = 1 / (e * e)
		}
	}

	alpha, beta := stat.LinearRegression(s.X, s.Y, weights, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return Fit{}, ErrTooFewPoints
	}
	return Fit{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  stat.RSquared(s.X, s.Y, weights, alpha, beta),
		Weighted:  weights != nil,
	}, nil
}
