package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestLoadShape(t *testing.T) {
	path := writeCSV(t, "1,2,3,4\n5,6,7,8\n9,10,11,12\n")
	ds, err := Load(path, ',', nil)
	test.Error(t, err)
	test.T(t, ds.Data.NumColumns(), 4)
	test.T(t, ds.Data.NumSeries(), 2)
	test.T(t, ds.Data.Rows, 3)

	mask := ds.Data.Mask()
	test.T(t, len(mask), 4)
	for _, col := range mask {
		test.T(t, len(col), 3)
	}
	test.Float(t, ds.Data.Columns[2][1].Value, 7)
	test.Float(t, ds.Data.Columns[3][2].Value, 12)
	test.T(t, ds.Headers.Labels, []string{"", "", "", ""})
	test.That(t, !ds.Headers.HasFormulas())
}

func TestLoadMissingCells(t *testing.T) {
	path := writeCSV(t, "1,2\nn/a,4\n5,\n7,8\n")
	ds, err := Load(path, ',', nil)
	test.Error(t, err)
	test.T(t, ds.Data.Mask(), [][]bool{
		{false, true, false, false},
		{false, false, true, false},
	})
	test.Float(t, ds.Data.Columns[0][1].Value, MissingSentinel)
	test.That(t, ds.Data.Missing(1, 2))
}

func TestLoadHeaders(t *testing.T) {
	path := writeCSV(t, "time,dist,t2,d2\n0.1,X*0.01,0.1,0.02\n1,2,3,4\n")
	ds, err := Load(path, ',', HeaderKinds(true, true))
	test.Error(t, err)
	test.T(t, ds.Headers.Labels, []string{"time", "dist", "t2", "d2"})
	test.T(t, ds.Headers.Formulas, []string{"0.1", "X*0.01", "0.1", "0.02"})
	test.T(t, ds.Data.Rows, 1)
}

func TestLoadErrorsRowOnly(t *testing.T) {
	path := writeCSV(t, "0.5,Y/10\n1,2\n3,4\n")
	ds, err := Load(path, ',', HeaderKinds(false, true))
	test.Error(t, err)
	test.T(t, ds.Headers.Formulas, []string{"0.5", "Y/10"})
	test.T(t, ds.Data.Rows, 2)
}

func TestLoadShortHeaderRowIsPadded(t *testing.T) {
	path := writeCSV(t, "a\n1,2\n")
	ds, err := Load(path, ',', HeaderKinds(true, false))
	test.Error(t, err)
	test.T(t, ds.Headers.Labels, []string{"a", ""})
}

func TestLoadDelimiterAndComments(t *testing.T) {
	path := writeCSV(t, "# measured 2024\n1;2\n\n 3 ; 4 \n")
	ds, err := Load(path, ';', nil)
	test.Error(t, err)
	test.T(t, ds.Data.Rows, 2)
	test.Float(t, ds.Data.Columns[1][1].Value, 4)
	test.T(t, ds.Grid.Lines, []int{2, 4})
}

func TestLoadTabDelimiterKeepsEmptyCells(t *testing.T) {
	path := writeCSV(t, "1\t2\n\t4\n")
	ds, err := Load(path, '\t', nil)
	test.Error(t, err)
	test.That(t, ds.Data.Missing(0, 1))
	test.Float(t, ds.Data.Columns[1][1].Value, 4)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), ',', nil)
	test.That(t, errors.Is(err, ErrFileNotFound), "got", err)
}

func TestLoadFailures(t *testing.T) {
	var tts = []struct {
		name    string
		content string
		kinds   []HeaderKind
		line    int
	}{
		{"ragged", "1,2\n3,4,5\n", nil, 2},
		{"undeclared labels", "x,y\n1,2\n", nil, 1},
		{"declared labels missing", "1,2\n3,4\n", HeaderKinds(true, false), 1},
		{"headers only", "x,y\n", HeaderKinds(true, false), 0},
		{"empty", "", HeaderKinds(true, true), 0},
		{"bad quoting", "1,\"2\n", nil, -1},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCSV(t, tt.content), ',', tt.kinds)
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected DataFormatError, got %v", err)
			}
			if tt.line >= 0 {
				test.T(t, dfe.Line, tt.line)
			}
		})
	}
}

func TestLoadColumnCount(t *testing.T) {
	_, err := Load(writeCSV(t, "1\n2\n"), ',', nil)
	test.That(t, errors.Is(err, ErrTooFewColumns), "got", err)

	_, err = Load(writeCSV(t, "1,2,3\n4,5,6\n"), ',', nil)
	test.That(t, errors.Is(err, ErrOddColumns), "got", err)
}

func TestReadGridKeepsHeaderText(t *testing.T) {
	grid, err := ReadGrid(strings.NewReader("a b,c\n1,2\n"), ',')
	test.Error(t, err)
	test.T(t, grid.Rows, [][]string{{"a b", "c"}, {"1", "2"}})
}

func TestDataFormatErrorMessage(t *testing.T) {
	err := &DataFormatError{Line: 3, Reason: "bad", Err: errors.New("cause")}
	test.T(t, err.Error(), "line 3: bad: cause")
	test.T(t, (&DataFormatError{Reason: "no data rows"}).Error(), "no data rows")
}

func TestLoadWarnsOnMixedFirstRow(t *testing.T) {
	path := writeCSV(t, "# run 3\nt,y,1,2\n1,2,3,4\n")
	ds, err := Load(path, ',', nil)
	test.Error(t, err)
	test.T(t, ds.Data.Rows, 2)
	test.T(t, len(ds.Warnings), 1)
	test.That(t, strings.HasPrefix(ds.Warnings[0], "line 2: "), ds.Warnings[0])
	test.That(t, strings.Contains(ds.Warnings[0], "undeclared header row"), ds.Warnings[0])

	path = writeCSV(t, "t,y,t2,y2\n1,2,3,4\n5,n/a,7,8\n")
	ds, err = Load(path, ',', HeaderKinds(true, false))
	test.Error(t, err)
	test.T(t, len(ds.Warnings), 0)
}

func TestMixedRow(t *testing.T) {
	test.That(t, mixedRow([]string{"t", "1"}))
	test.That(t, !mixedRow([]string{"1", "", "2"}))
	test.That(t, !mixedRow([]string{"a", "b"}))
	test.That(t, !mixedRow([]string{"", ""}))
}
