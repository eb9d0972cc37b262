package formula

import (
	"fmt"
	"math"
	"sort"
)

type function struct {
	minArgs int
	maxArgs int // -1 for variadic
	apply   func(args []float64) float64
}

func (f *function) arity() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.minArgs)
	case f.minArgs == f.maxArgs && f.minArgs == 1:
		return "1 argument"
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("%d arguments", f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

func unaryFunc(fn func(float64) float64) *function {
	return &function{minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 { return fn(a[0]) }}
}

func binaryFunc(fn func(float64, float64) float64) *function {
	return &function{minArgs: 2, maxArgs: 2, apply: func(a []float64) float64 { return fn(a[0], a[1]) }}
}

var functions = map[string]*function{
	"abs":   unaryFunc(math.Abs),
	"sqrt":  unaryFunc(math.Sqrt),
	"exp":   unaryFunc(math.Exp),
	"ln":    unaryFunc(math.Log),
	"log10": unaryFunc(math.Log10),
	"log2":  unaryFunc(math.Log2),
	"sin":   unaryFunc(math.Sin),
	"cos":   unaryFunc(math.Cos),
	"tan":   unaryFunc(math.Tan),
	"asin":  unaryFunc(math.Asin),
	"acos":  unaryFunc(math.Acos),
	"atan":  unaryFunc(math.Atan),
	"sinh":  unaryFunc(math.Sinh),
	"cosh":  unaryFunc(math.Cosh),
	"tanh":  unaryFunc(math.Tanh),
	"floor": unaryFunc(math.Floor),
	"ceil":  unaryFunc(math.Ceil),
	"round": unaryFunc(math.RoundToEven),
	"atan2": binaryFunc(math.Atan2),
	"pow":   binaryFunc(math.Pow),
	"hypot": binaryFunc(math.Hypot),
	"log": {minArgs: 1, maxArgs: 2, apply: func(a []float64) float64 {
		if len(a) == 2 {
			return math.Log(a[0]) / math.Log(a[1])
		}
		return math.Log(a[0])
	}},
	"min": {minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// Functions returns the names of the callable functions, sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
