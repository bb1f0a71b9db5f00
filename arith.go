package formula

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// decimalPlaces is the number of fractional digits kept by inexact decimal
// operations.
const decimalPlaces = 28

// binary applies a binary operator to x and y.
func binary(op opcode, x, y Number, preferDecimal bool) (Number, error) {
	if op.integer() {
		return intop(op, x, y)
	}
	return arith(op, x, y, preferDecimal), nil
}

// arith applies an arithmetic operator after promoting its operands. Integer
// operations that overflow or lose their fraction escalate to Decimal or
// Double. Decimal operations whose result has no decimal representation are
// done in Double.
func arith(op opcode, x, y Number, preferDecimal bool) Number {
	x, y = promote(x, y)
	switch x.kind {
	case Integer:
		if r, ok := intArith(op, x.i, y.i); ok {
			return Int(r)
		}
		k := widen(preferDecimal)
		return arith(op, x.to(k), y.to(k), preferDecimal)
	case Decimal:
		if r, ok := decArith(op, x.d, y.d); ok {
			return Dec(r)
		}
		return Float(floatArith(op, x.Float64(), y.Float64()))
	case Double:
		return Float(floatArith(op, x.f, y.f))
	}
	panic(badKind(x.kind))
}

func intArith(op opcode, a, b int64) (int64, bool) {
	switch op {
	case opAdd:
		return add64(a, b)
	case opSub:
		return sub64(a, b)
	case opMul:
		return mul64(a, b)
	case opDiv:
		if b == 0 || a%b != 0 || (a == math.MinInt64 && b == -1) {
			return 0, false
		}
		return a / b, true
	case opPow:
		return pow64(a, b)
	case opRoot:
		return 0, false
	}
	panic("formula: not an arithmetic operator: " + op.String())
}

func add64(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func sub64(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}

// pow64 computes a**b by squaring. Negative exponents do not stay integral.
func pow64(a, b int64) (int64, bool) {
	if b < 0 {
		return 0, false
	}
	r := int64(1)
	for b > 0 {
		var ok bool
		if b&1 != 0 {
			if r, ok = mul64(r, a); !ok {
				return 0, false
			}
		}
		b >>= 1
		if b > 0 {
			if a, ok = mul64(a, a); !ok {
				return 0, false
			}
		}
	}
	return r, true
}

var decOne = decimal.NewFromInt(1)

// decArith applies an arithmetic operator to decimals. It reports false when
// the result has no decimal representation or is outside maxDecScale.
func decArith(op opcode, a, b decimal.Decimal) (decimal.Decimal, bool) {
	var r decimal.Decimal
	switch op {
	case opAdd:
		r = a.Add(b)
	case opSub:
		r = a.Sub(b)
	case opMul:
		r = a.Mul(b)
	case opDiv:
		if b.IsZero() {
			return decimal.Decimal{}, false
		}
		r = a.DivRound(b, decimalPlaces)
	case opPow:
		return decPow(a, b)
	case opRoot:
		if b.IsZero() {
			return decimal.Decimal{}, false
		}
		y := new(big.Float).SetPrec(bigPrec).Quo(big.NewFloat(1).SetPrec(bigPrec), decToBig(b))
		return bigPow(a, y)
	default:
		panic("formula: not an arithmetic operator: " + op.String())
	}
	return r, decOK(r)
}

// maxDecExp is the largest integer exponent computed by repeated
// multiplication rather than through logarithms.
const maxDecExp = 1 << 12

func decPow(a, b decimal.Decimal) (decimal.Decimal, bool) {
	if b.IsInteger() && b.Abs().LessThanOrEqual(decimal.NewFromInt(maxDecExp)) {
		n := b.IntPart()
		neg := n < 0
		if neg {
			if a.IsZero() {
				return decimal.Decimal{}, false
			}
			n = -n
		}
		r := decOne
		for n > 0 {
			if n&1 != 0 {
				if r = r.Mul(a); !decOK(r) {
					return decimal.Decimal{}, false
				}
			}
			n >>= 1
			if n > 0 {
				if a = a.Mul(a); !decOK(a) {
					return decimal.Decimal{}, false
				}
			}
		}
		if neg {
			r = decOne.DivRound(r, decimalPlaces)
		}
		return r, decOK(r)
	}
	return bigPow(a, decToBig(b))
}

// maxExpArg bounds the natural logarithm of results computed through
// bigfloat. e**maxExpArg is 10**maxDecScale.
const maxExpArg = maxDecScale * math.Ln10

// decMag bounds the magnitude of log10 of a positive decimal from above.
func decMag(d decimal.Decimal) float64 {
	return math.Abs(float64(d.NumDigits()+int(d.Exponent()))) + 1
}

// bigPow computes a**y through bigfloat. Negative bases, division by zero, and
// results outside maxDecScale report false.
func bigPow(a decimal.Decimal, y *big.Float) (decimal.Decimal, bool) {
	switch a.Sign() {
	case -1:
		return decimal.Decimal{}, false
	case 0:
		if y.Sign() <= 0 {
			return decimal.Decimal{}, false
		}
		return decimal.Zero, true
	}
	if y.Sign() == 0 {
		return decOne, true
	}
	if yf, _ := y.Float64(); math.Abs(yf)*decMag(a)*math.Ln10 > maxExpArg {
		return decimal.Decimal{}, false
	}
	z := bigfloat.Pow(new(big.Float).SetPrec(bigPrec), decToBig(a), y)
	return bigToDec(z)
}

func floatArith(op opcode, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	case opPow:
		return math.Pow(a, b)
	case opRoot:
		return math.Pow(a, 1/b)
	}
	panic("formula: not an arithmetic operator: " + op.String())
}

// intop applies an integer-only operator. Both operands are truncated to
// Integer first and the result never escalates.
func intop(op opcode, x, y Number) (Number, error) {
	a, b := x.Int64(), y.Int64()
	switch op {
	case opMod:
		if b == 0 {
			return Number{}, &ArithmeticError{Op: "%", Msg: "integer division by zero"}
		}
		return Int(a % b), nil
	case opIdiv:
		if b == 0 {
			return Number{}, &ArithmeticError{Op: `\`, Msg: "integer division by zero"}
		}
		return Int(a / b), nil
	case opShl:
		return Int(a << (uint64(b) & 63)), nil
	case opShr:
		return Int(a >> (uint64(b) & 63)), nil
	case opAnd:
		return Int(a & b), nil
	case opOr:
		return Int(a | b), nil
	case opXor:
		return Int(a ^ b), nil
	}
	panic("formula: not an integer operator: " + op.String())
}

// unary applies a unary operator. Empty operands act as Integer zero.
func unary(op opcode, x Number, preferDecimal bool) Number {
	if x.kind == Empty {
		x = Int(0)
	}
	switch op {
	case opNeg:
		switch x.kind {
		case Integer:
			if x.i == math.MinInt64 {
				return unary(op, x.to(widen(preferDecimal)), preferDecimal)
			}
			return Int(-x.i)
		case Decimal:
			return Dec(x.d.Neg())
		case Double:
			return Float(-x.f)
		}
		panic(badKind(x.kind))
	case opNot:
		return Int(^x.Int64())
	case opFact:
		return factorial(x, preferDecimal)
	}
	panic("formula: not a unary operator: " + op.String())
}

const (
	// maxFloatFact is the largest n for which n! is finite in float64.
	maxFloatFact = 170
	// maxDecFact is the largest n for which n! is computed exactly as a
	// decimal. Larger arguments are computed in Double.
	maxDecFact = 10000
)

// factorial computes x! by iterated checked multiplication, escalating the
// same way as arith. Non-integers and negative numbers go through Gamma.
func factorial(x Number, preferDecimal bool) Number {
	switch x.kind {
	case Integer:
		if x.i < 0 {
			return Float(math.Gamma(float64(x.i) + 1))
		}
		r := int64(1)
		for k := int64(2); k <= x.i; k++ {
			var ok bool
			if r, ok = mul64(r, k); !ok {
				return factorial(x.to(widen(preferDecimal)), preferDecimal)
			}
		}
		return Int(r)
	case Decimal:
		if x.d.GreaterThan(decimal.NewFromInt(maxDecFact)) {
			return factorial(Float(x.Float64()), preferDecimal)
		}
		if !x.d.IsInteger() || x.d.Sign() < 0 {
			g := math.Gamma(x.Float64() + 1)
			if math.IsInf(g, 0) || math.IsNaN(g) {
				return Float(g)
			}
			return Dec(floatToDec(g))
		}
		r := decOne
		for k, n := int64(2), x.d.IntPart(); k <= n; k++ {
			r = r.Mul(decimal.NewFromInt(k))
		}
		return Dec(r)
	case Double:
		f := x.f
		switch {
		case f != math.Trunc(f) || f < 0:
			return Float(math.Gamma(f + 1))
		case f > maxFloatFact:
			return Float(math.Inf(1))
		}
		r := 1.0
		for k := 2.0; k <= f; k++ {
			r *= k
		}
		return Float(r)
	}
	panic(badKind(x.kind))
}

// compare returns -1, 0, or 1 as x is less than, equal to, or greater than y
// after promotion. NaN compares equal to everything.
func compare(x, y Number) int {
	x, y = promote(x, y)
	switch x.kind {
	case Integer:
		switch {
		case x.i < y.i:
			return -1
		case x.i > y.i:
			return 1
		}
		return 0
	case Decimal:
		return x.d.Cmp(y.d)
	case Double:
		switch {
		case x.f < y.f:
			return -1
		case x.f > y.f:
			return 1
		}
		return 0
	}
	panic(badKind(x.kind))
}
