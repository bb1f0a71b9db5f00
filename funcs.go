package formula

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// Func is a function callable from formulas through Vars.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Elements of args are host values as produced by
	// Number.Host. The result may be any value Convert accepts, including a
	// Number; nil means Empty.
	Call(args []any) (any, error)
	// CanCall returns whether the function can be called with n arguments.
	// Functions that can be called with no arguments can also be read as
	// variables.
	CanCall(n int) bool
}

type monadic struct {
	name string
	f    func(x Number) (Number, error)
}

func (m monadic) Call(args []any) (any, error) {
	x, err := Native(args[0])
	if err != nil {
		return nil, err
	}
	r, err := m.f(x)
	if err != nil {
		if de, ok := err.(*DomainError); ok && de.Func == "" {
			de.Func = m.name
		}
		return nil, err
	}
	return r, nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one number into a Func. DomainErrors returned
// by f without a function name get name.
func Monadic(name string, f func(x Number) (Number, error)) Func {
	return monadic{name, f}
}

type niladic struct {
	f func() Number
}

func (n niladic) Call(args []any) (any, error) {
	return n.f(), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func.
func Niladic(f func() Number) Func {
	return niladic{f}
}

// Constant is a Niladic function returning x.
func Constant(x Number) Func {
	return niladic{func() Number { return x }}
}

type variadic struct {
	lo, hi int
	f      func(xs []Number) (Number, error)
}

func (v variadic) Call(args []any) (any, error) {
	xs := make([]Number, len(args))
	for i, a := range args {
		x, err := Native(a)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return v.f(xs)
}

func (v variadic) CanCall(n int) bool {
	return v.lo <= n && (v.hi < 0 || n <= v.hi)
}

// Variadic wraps a function of between lo and hi numbers into a Func. A
// negative hi means no upper limit.
func Variadic(lo, hi int, f func(xs []Number) (Number, error)) Func {
	return variadic{lo, hi, f}
}

var globalfuncs = map[string]Func{
	"abs":  Monadic("abs", abs),
	"sqrt": Monadic("sqrt", sqrt),
	"exp":  Monadic("exp", exp),
	"ln":   Monadic("ln", ln),
	"log":  Variadic(1, 2, logb),

	"sin":  realfn("sin", math.Sin),
	"cos":  realfn("cos", math.Cos),
	"tan":  realfn("tan", math.Tan),
	"asin": realfn("asin", math.Asin),
	"acos": realfn("acos", math.Acos),
	"atan": realfn("atan", math.Atan),
	"sinh": realfn("sinh", math.Sinh),
	"cosh": realfn("cosh", math.Cosh),
	"tanh": realfn("tanh", math.Tanh),

	"floor": Monadic("floor", rounder(decimal.Decimal.Floor, math.Floor)),
	"ceil":  Monadic("ceil", rounder(decimal.Decimal.Ceil, math.Ceil)),
	"round": Monadic("round", rounder(func(d decimal.Decimal) decimal.Decimal { return d.Round(0) }, math.Round)),
	"min":   Variadic(1, -1, extremum(-1)),
	"max":   Variadic(1, -1, extremum(1)),

	// constants
	"pi": Constant(bigNum(bigfloat.Pi(new(big.Float).SetPrec(bigPrec)))),
	"e":  Constant(bigNum(bigfloat.Exp(new(big.Float).SetPrec(bigPrec), big.NewFloat(1).SetPrec(bigPrec)))),

	// SI multipliers
	"tera":  Constant(Int(1e12)),
	"giga":  Constant(Int(1e9)),
	"mega":  Constant(Int(1e6)),
	"kilo":  Constant(Int(1e3)),
	"milli": Constant(Dec(decimal.New(1, -3))),
	"micro": Constant(Dec(decimal.New(1, -6))),
	"nano":  Constant(Dec(decimal.New(1, -9))),
	"pico":  Constant(Dec(decimal.New(1, -12))),
}

// DefaultFuncs returns a new map of the default functions: abs, sqrt, exp,
// ln, log (common logarithm, or log(x; base)), trigonometric and hyperbolic
// functions, floor, ceil, round, min, max, the constants pi and e, and the SI
// multipliers tera through pico.
func DefaultFuncs() map[string]Func {
	return copyFuncs(globalfuncs)
}

// bigNum converts a result computed in big.Float to Decimal, or to Double if
// it does not fit.
func bigNum(f *big.Float) Number {
	if d, ok := bigToDec(f); ok {
		return Dec(d)
	}
	r, _ := f.Float64()
	return Float(r)
}

func abs(x Number) (Number, error) {
	if x.sign() < 0 {
		return unary(opNeg, x, true), nil
	}
	return x, nil
}

func sqrt(x Number) (Number, error) {
	if x.sign() < 0 {
		return Number{}, &DomainError{X: x}
	}
	if x.kind == Decimal {
		if x.d.IsZero() {
			return x, nil
		}
		return bigNum(new(big.Float).SetPrec(bigPrec).Sqrt(decToBig(x.d))), nil
	}
	return Float(math.Sqrt(x.Float64())), nil
}

var decExpLimit = decimal.NewFromFloat(maxExpArg)

func exp(x Number) (Number, error) {
	if x.kind == Decimal && x.d.Abs().LessThan(decExpLimit) {
		r := bigfloat.Exp(new(big.Float).SetPrec(bigPrec), decToBig(x.d))
		if d, ok := bigToDec(r); ok {
			return Dec(d), nil
		}
	}
	return Float(math.Exp(x.Float64())), nil
}

func ln(x Number) (Number, error) {
	if x.sign() <= 0 {
		return Number{}, &DomainError{X: x}
	}
	if x.kind == Decimal {
		return bigNum(bigLog(x.d)), nil
	}
	return Float(math.Log(x.Float64())), nil
}

func bigLog(d decimal.Decimal) *big.Float {
	return bigfloat.Log(new(big.Float).SetPrec(bigPrec), decToBig(d))
}

// logb computes the common logarithm of x, or its logarithm in a given base.
func logb(xs []Number) (Number, error) {
	x := xs[0]
	if x.sign() <= 0 {
		return Number{}, &DomainError{X: x, Arg: 1, Func: "log"}
	}
	b := Int(10)
	if len(xs) > 1 {
		b = xs[1]
		if b.sign() <= 0 || compare(b, Int(1)) == 0 {
			return Number{}, &DomainError{X: b, Arg: 2, Func: "log"}
		}
	}
	if x.kind == Decimal || b.kind == Decimal {
		r := bigLog(x.Decimal())
		r.Quo(r, bigLog(b.Decimal()))
		return bigNum(r), nil
	}
	switch b.Float64() {
	case 10:
		return Float(math.Log10(x.Float64())), nil
	case 2:
		return Float(math.Log2(x.Float64())), nil
	}
	return Float(math.Log(x.Float64()) / math.Log(b.Float64())), nil
}

// realfn wraps a float64 function. Results that are NaN for a non-NaN argument
// are domain errors.
func realfn(name string, f func(float64) float64) Func {
	return Monadic(name, func(x Number) (Number, error) {
		a := x.Float64()
		r := f(a)
		if math.IsNaN(r) && !math.IsNaN(a) {
			return Number{}, &DomainError{X: x}
		}
		return Float(r), nil
	})
}

// rounder creates a function rounding decimals with d and doubles with f.
// Integers are already round.
func rounder(d func(decimal.Decimal) decimal.Decimal, f func(float64) float64) func(Number) (Number, error) {
	return func(x Number) (Number, error) {
		switch x.kind {
		case Empty, Integer:
			return x.to(Integer), nil
		case Decimal:
			return Dec(d(x.d)), nil
		case Double:
			return Float(f(x.f)), nil
		}
		panic(badKind(x.kind))
	}
}

// extremum creates a function selecting the least (dir = -1) or greatest
// (dir = 1) argument.
func extremum(dir int) func([]Number) (Number, error) {
	return func(xs []Number) (Number, error) {
		r := xs[0]
		for _, x := range xs[1:] {
			if compare(x, r) == dir {
				r = x
			}
		}
		return r, nil
	}
}
