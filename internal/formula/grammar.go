package formula

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar below is lowest precedence first. Power binds tighter than a
// leading sign, so -2^2 is -(2^2).
//
//nolint:govet // participle grammar tags are not standard struct tags
type comparison struct {
	Left  *sum   `@@`
	Op    string `( @("<=" | ">=" | "==" | "!=" | "<" | ">")`
	Right *sum   `  @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type sum struct {
	Head *product `@@`
	Tail []*sumOp `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type sumOp struct {
	Op      string   `@("+" | "-")`
	Operand *product `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type product struct {
	Head *unary       `@@`
	Tail []*productOp `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type productOp struct {
	Op      string `@("*" | "/" | "%")`
	Operand *unary `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type unary struct {
	Sign    string `  ( @("-" | "+")`
	Operand *unary `    @@ )`
	Power   *power `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type power struct {
	Base     *primary `@@`
	Exponent *unary   `( ("^" | "**") @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type primary struct {
	Number *float64    `  @Number`
	Symbol *symbol     `| @@`
	Sub    *comparison `| "(" @@ ")"`
}

// symbol is a variable reference, or a function call when followed by
// an argument list.
//
//nolint:govet // participle grammar tags are not standard struct tags
type symbol struct {
	Name string        `@Ident`
	Call bool          `( @"("`
	Args []*comparison `  ( @@ ( "," @@ )* )? ")" )?`
}

var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Op", Pattern: `\*\*|<=|>=|==|!=|[-+*/%^<>(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var formulaParser = participle.MustBuild[comparison](
	participle.Lexer(formulaLexer),
	participle.Elide("Whitespace"),
)
