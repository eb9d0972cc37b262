// Package formula implements the small arithmetic language used for
// per-column error formulas such as "X*0.01 + k".
//
// An expression can read only the variables it is given, the constants pi
// and e, and a fixed set of math functions. It has no access to anything
// else in the process.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrSyntax          = errors.New("syntax error")
	ErrUndefined       = errors.New("undefined variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNotFinite       = errors.New("result is not a finite number")
)

// Vars binds variable names to values for one evaluation.
type Vars map[string]float64

var constants = Vars{
	"pi": math.Pi,
	"e":  math.E,
}

// Expr is a compiled formula.
type Expr struct {
	src  string
	root node
}

// Compile parses src into an Expr.
func Compile(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	tree, err := formulaParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	root, err := tree.build()
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source text of the expression.
func (e *Expr) String() string { return e.src }

// Eval evaluates the expression with the given bindings. Bindings shadow the
// constants pi and e.
func (e *Expr) Eval(vars Vars) (float64, error) {
	v, err := e.root.eval(vars)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

type node interface {
	eval(vars Vars) (float64, error)
}

type number float64

func (n number) eval(Vars) (float64, error) { return float64(n), nil }

type variable string

func (n variable) eval(vars Vars) (float64, error) {
	if v, ok := vars[string(n)]; ok {
		return v, nil
	}
	if v, ok := constants[string(n)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUndefined, string(n))
}

type negate struct{ x node }

func (n negate) eval(vars Vars) (float64, error) {
	v, err := n.x.eval(vars)
	return -v, err
}

type binary struct {
	op   string
	l, r node
}

func (n binary) eval(vars Vars) (float64, error) {
	a, err := n.l.eval(vars)
	if err != nil {
		return 0, err
	}
	b, err := n.r.eval(vars)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		// The result takes the sign of the divisor.
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	case "^":
		return math.Pow(a, b), nil
	case "<":
		return truth(a < b), nil
	case "<=":
		return truth(a <= b), nil
	case ">":
		return truth(a > b), nil
	case ">=":
		return truth(a >= b), nil
	case "==":
		return truth(a == b), nil
	case "!=":
		return truth(a != b), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

type call struct {
	fn   *function
	args []node
}

func (n call) eval(vars Vars) (float64, error) {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return n.fn.apply(args), nil
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (c *comparison) build() (node, error) {
	left, err := c.Left.build()
	if err != nil || c.Right == nil {
		return left, err
	}
	right, err := c.Right.build()
	if err != nil {
		return nil, err
	}
	return binary{op: c.Op, l: left, r: right}, nil
}

func (s *sum) build() (node, error) {
	acc, err := s.Head.build()
	if err != nil {
		return nil, err
	}
	for _, t := range s.Tail {
		r, err := t.Operand.build()
		if err != nil {
			return nil, err
		}
		acc = binary{op: t.Op, l: acc, r: r}
	}
	return acc, nil
}

func (p *product) build() (node, error) {
	acc, err := p.Head.build()
	if err != nil {
		return nil, err
	}
	for _, t := range p.Tail {
		r, err := t.Operand.build()
		if err != nil {
			return nil, err
		}
		acc = binary{op: t.Op, l: acc, r: r}
	}
	return acc, nil
}

func (u *unary) build() (node, error) {
	if u.Power != nil {
		return u.Power.build()
	}
	x, err := u.Operand.build()
	if err != nil {
		return nil, err
	}
	if u.Sign == "-" {
		return negate{x: x}, nil
	}
	return x, nil
}

func (p *power) build() (node, error) {
	base, err := p.Base.build()
	if err != nil || p.Exponent == nil {
		return base, err
	}
	exp, err := p.Exponent.build()
	if err != nil {
		return nil, err
	}
	return binary{op: "^", l: base, r: exp}, nil
}

func (p *primary) build() (node, error) {
	switch {
	case p.Number != nil:
		return number(*p.Number), nil
	case p.Symbol != nil:
		return p.Symbol.build()
	case p.Sub != nil:
		return p.Sub.build()
	}
	return nil, fmt.Errorf("%w: empty operand", ErrSyntax)
}

func (s *symbol) build() (node, error) {
	if !s.Call {
		return variable(s.Name), nil
	}

	fn, ok := functions[s.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownFunction, s.Name, strings.Join(Functions(), ", "))
	}
	if len(s.Args) < fn.minArgs || (fn.maxArgs >= 0 && len(s.Args) > fn.maxArgs) {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrArity, s.Name, fn.arity(), len(s.Args))
	}

	args := make([]node, len(s.Args))
	for i, a := range s.Args {
		n, err := a.build()
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return call{fn: fn, args: args}, nil
}
