package formula

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind is the tag of a Number. Kinds are ranked in the order they are
// declared; arithmetic between two numbers happens in the higher kind.
type Kind uint8

const (
	// Empty is the kind of the zero Number. Missing variables and functions
	// which return nothing produce it.
	Empty Kind = iota
	// Integer is a 64-bit signed integer.
	Integer
	// Decimal is an arbitrary-precision decimal.
	Decimal
	// Double is an IEEE-754 binary64.
	Double
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind

// Number is a tagged numeric value. The zero value is Empty. Numbers are
// immutable; conversions return new values.
type Number struct {
	kind Kind
	i    int64
	f    float64
	d    decimal.Decimal
}

// Int returns an Integer.
func Int(x int64) Number {
	return Number{kind: Integer, i: x}
}

// Dec returns a Decimal.
func Dec(x decimal.Decimal) Number {
	return Number{kind: Decimal, d: x}
}

// Float returns a Double.
func Float(x float64) Number {
	return Number{kind: Double, f: x}
}

// Kind returns the tag of n.
func (n Number) Kind() Kind {
	return n.kind
}

// IsEmpty reports whether n is Empty.
func (n Number) IsEmpty() bool {
	return n.kind == Empty
}

// Int64 returns n truncated toward zero. Values outside the range of int64
// saturate, and NaN is 0.
func (n Number) Int64() int64 {
	switch n.kind {
	case Empty:
		return 0
	case Integer:
		return n.i
	case Decimal:
		return decToInt(n.d)
	case Double:
		return floatToInt(n.f)
	}
	panic(badKind(n.kind))
}

// Float64 returns the nearest float64 to n.
func (n Number) Float64() float64 {
	switch n.kind {
	case Empty:
		return 0
	case Integer:
		return float64(n.i)
	case Decimal:
		f, _ := n.d.Float64()
		return f
	case Double:
		return n.f
	}
	panic(badKind(n.kind))
}

// Decimal returns n as a decimal. Infinities and NaN have no decimal
// representation and become zero.
func (n Number) Decimal() decimal.Decimal {
	switch n.kind {
	case Empty:
		return decimal.Zero
	case Integer:
		return decimal.NewFromInt(n.i)
	case Decimal:
		return n.d
	case Double:
		return floatToDec(n.f)
	}
	panic(badKind(n.kind))
}

// Host returns n as a plain Go value: nil for Empty, int64 for Integer,
// decimal.Decimal for Decimal, and float64 for Double. Convert maps each back
// to an equal Number.
func (n Number) Host() any {
	switch n.kind {
	case Empty:
		return nil
	case Integer:
		return n.i
	case Decimal:
		return n.d
	case Double:
		return n.f
	}
	panic(badKind(n.kind))
}

// Equal reports whether n and m have the same kind and value.
func (n Number) Equal(m Number) bool {
	if n.kind != m.kind {
		return false
	}
	switch n.kind {
	case Empty:
		return true
	case Integer:
		return n.i == m.i
	case Decimal:
		return n.d.Equal(m.d)
	case Double:
		return n.f == m.f
	}
	panic(badKind(n.kind))
}

func (n Number) String() string {
	switch n.kind {
	case Empty:
		return "empty"
	case Integer:
		return strconv.FormatInt(n.i, 10)
	case Decimal:
		return n.d.String()
	case Double:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	panic(badKind(n.kind))
}

// to converts n to kind k. Converting to a lower kind truncates.
func (n Number) to(k Kind) Number {
	if n.kind == k {
		return n
	}
	switch k {
	case Empty:
		return Number{}
	case Integer:
		return Int(n.Int64())
	case Decimal:
		return Dec(n.Decimal())
	case Double:
		return Float(n.Float64())
	}
	panic(badKind(k))
}

// sign returns -1, 0, or 1 according to the sign of n. NaN is 0.
func (n Number) sign() int {
	switch n.kind {
	case Empty:
		return 0
	case Integer:
		switch {
		case n.i < 0:
			return -1
		case n.i > 0:
			return 1
		}
		return 0
	case Decimal:
		return n.d.Sign()
	case Double:
		switch {
		case n.f < 0:
			return -1
		case n.f > 0:
			return 1
		}
		return 0
	}
	panic(badKind(n.kind))
}

// promote converts x and y to their common kind. Two Empty values become
// Integer zeros.
func promote(x, y Number) (Number, Number) {
	if x.kind == Empty && y.kind == Empty {
		return Int(0), Int(0)
	}
	k := max(x.kind, y.kind)
	return x.to(k), y.to(k)
}

// widen returns the kind that integer operations escalate to.
func widen(preferDecimal bool) Kind {
	if preferDecimal {
		return Decimal
	}
	return Double
}

// retag moves a non-integer number to the kind selected by preferDecimal.
// Non-finite doubles stay Double.
func retag(n Number, preferDecimal bool) Number {
	switch {
	case preferDecimal && n.kind == Double && !math.IsInf(n.f, 0) && !math.IsNaN(n.f):
		return Dec(floatToDec(n.f))
	case !preferDecimal && n.kind == Decimal:
		return Float(n.Float64())
	}
	return n
}

var (
	decMaxInt = decimal.NewFromInt(math.MaxInt64)
	decMinInt = decimal.NewFromInt(math.MinInt64)
)

func decToInt(d decimal.Decimal) int64 {
	switch {
	case d.GreaterThan(decMaxInt):
		return math.MaxInt64
	case d.LessThan(decMinInt):
		return math.MinInt64
	}
	return d.IntPart()
}

func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func floatToDec(f float64) decimal.Decimal {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// bigPrec is the precision in bits of intermediate *big.Float computations
// on decimals.
const bigPrec = 256

func decToBig(d decimal.Decimal) *big.Float {
	return new(big.Float).SetPrec(bigPrec).SetRat(d.Rat())
}

// maxDecScale bounds the exponent magnitude and the digit count of decimal
// results. Larger results are computed in Double instead.
const maxDecScale = 1 << 16

// decOK reports whether d is within maxDecScale.
func decOK(d decimal.Decimal) bool {
	e := d.Exponent()
	return -maxDecScale <= e && e <= maxDecScale && d.NumDigits() <= maxDecScale
}

// bigToDec converts a *big.Float to a decimal rounded to decimalPlaces
// fractional digits. It reports false for infinities and results outside
// maxDecScale.
func bigToDec(f *big.Float) (decimal.Decimal, bool) {
	if f.IsInf() {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(f.Text('e', 2*decimalPlaces))
	if err != nil || d.Exponent() > maxDecScale {
		return decimal.Decimal{}, false
	}
	d = d.Round(decimalPlaces)
	return d, decOK(d)
}

func badKind(k Kind) string {
	return "formula: invalid number kind " + k.String()
}
