package formula

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Native converts a host value to a Number of its natural kind: nil is Empty;
// signed and unsigned integers and bools are Integer, with true as -1;
// decimal.Decimal is Decimal, as are integers outside the range of int64;
// float32 and float64 are Double; *big.Float is Decimal when it fits and
// Double otherwise. Any other type is a *ConversionError.
func Native(v any) (Number, error) {
	switch v := v.(type) {
	case nil:
		return Number{}, nil
	case Number:
		return v, nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUint(v), nil
	case uintptr:
		return fromUint(uint64(v)), nil
	case bool:
		if v {
			return Int(-1), nil
		}
		return Int(0), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case decimal.Decimal:
		return Dec(v), nil
	case *decimal.Decimal:
		if v == nil {
			return Number{}, nil
		}
		return Dec(*v), nil
	case *big.Int:
		switch {
		case v == nil:
			return Number{}, nil
		case v.IsInt64():
			return Int(v.Int64()), nil
		}
		return Dec(decimal.NewFromBigInt(v, 0)), nil
	case *big.Float:
		if v == nil {
			return Number{}, nil
		}
		if d, ok := bigToDec(v); ok {
			return Dec(d), nil
		}
		f, _ := v.Float64()
		return Float(f), nil
	}
	return Number{}, &ConversionError{Value: v}
}

func fromUint(u uint64) Number {
	if u > math.MaxInt64 {
		return Dec(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
	}
	return Int(int64(u))
}

// Convert converts a host value to a Number as Native does, then moves
// Decimal and finite Double results to Decimal if preferDecimal is set and to
// Double otherwise. This is the conversion applied to variable values and
// function results during evaluation.
func Convert(v any, preferDecimal bool) (Number, error) {
	n, err := Native(v)
	if err != nil {
		return n, err
	}
	return retag(n, preferDecimal), nil
}
