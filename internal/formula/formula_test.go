package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestEval(t *testing.T) {
	var tts = []struct {
		src  string
		vars Vars
		want float64
	}{
		{"X + Y", Vars{"X": 2, "Y": 3}, 5},
		{"X * k", Vars{"X": 4, "k": 2}, 8},
		{"0.05", nil, 0.05},
		{".5e1", nil, 5},
		{"1 + 2 * 3", nil, 7},
		{"(1 + 2) * 3", nil, 9},
		{"10 - 4 - 3", nil, 3},
		{"8 / 4 / 2", nil, 1},
		{"2 ^ 3 ^ 2", nil, 512},
		{"2 ** 3", nil, 8},
		{"-2 ^ 2", nil, -4},
		{"2 ^ -1", nil, 0.5},
		{"--3", nil, 3},
		{"+X", Vars{"X": 1.5}, 1.5},
		{"7 % 3", nil, 1},
		{"-7 % 3", nil, 2},
		{"X < Y", Vars{"X": 1, "Y": 2}, 1},
		{"X >= Y", Vars{"X": 1, "Y": 2}, 0},
		{"1 + 1 == 2", nil, 1},
		{"sqrt(X^2 + Y^2)", Vars{"X": 3, "Y": 4}, 5},
		{"hypot(3, 4)", nil, 5},
		{"abs(-0.25)", nil, 0.25},
		{"max(1, X, 3)", Vars{"X": 7}, 7},
		{"min(4)", nil, 4},
		{"log(100, 10)", nil, 2},
		{"ln(e)", nil, 1},
		{"log10(1000)", nil, 3},
		{"round(2.5)", nil, 2},
		{"cos(pi)", nil, -1},
		{"pi", Vars{"pi": 3}, 3},
		{"0.01*X + 0.002", Vars{"X": 10}, 0.102},
	}
	for _, tt := range tts {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			test.Error(t, err)
			v, err := e.Eval(tt.vars)
			test.Error(t, err)
			test.Float(t, v, tt.want)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	var tts = []struct {
		src string
		err error
	}{
		{"", ErrSyntax},
		{"1 +", ErrSyntax},
		{"(1", ErrSyntax},
		{"2 3", ErrSyntax},
		{"X $ Y", ErrSyntax},
		{"1 < 2 < 3", ErrSyntax},
		{"__import__('os')", ErrSyntax},
		{"open(X)", ErrUnknownFunction},
		{"sqrt()", ErrArity},
		{"pow(1)", ErrArity},
		{"abs(1, 2)", ErrArity},
	}
	for _, tt := range tts {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Compile(tt.src)
			test.That(t, errors.Is(err, tt.err), "expected", tt.err, "got", err)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	var tts = []struct {
		src  string
		vars Vars
		err  error
	}{
		{"X * k", Vars{"X": 1}, ErrUndefined},
		{"Z", Vars{"X": 1, "Y": 2}, ErrUndefined},
		{"X / Y", Vars{"X": 1, "Y": 0}, ErrDivisionByZero},
		{"X % 0", Vars{"X": 1}, ErrDivisionByZero},
		{"sqrt(-1)", nil, ErrNotFinite},
		{"10 ^ 400", nil, ErrNotFinite},
	}
	for _, tt := range tts {
		t.Run(tt.src, func(t *testing.T) {
			v, err := MustCompile(tt.src).Eval(tt.vars)
			test.That(t, errors.Is(err, tt.err), "expected", tt.err, "got", err)
			test.Float(t, v, 0)
		})
	}
}

func TestExprReuse(t *testing.T) {
	e := MustCompile(" X * 2 ")
	test.T(t, e.String(), "X * 2")
	for i := 0; i < 3; i++ {
		v, err := e.Eval(Vars{"X": float64(i)})
		test.Error(t, err)
		test.Float(t, v, float64(2*i))
	}
}

func TestFunctionsSorted(t *testing.T) {
	names := Functions()
	test.That(t, len(names) > 0)
	for i := 1; i < len(names); i++ {
		test.That(t, names[i-1] < names[i], names[i-1], names[i])
	}
	_, ok := functions["sqrt"]
	test.That(t, ok)
	test.That(t, !math.IsNaN(functions["max"].apply([]float64{1, 2})))
}
