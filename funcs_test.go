package formula_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/formula"
)

func TestDefaultFuncs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		dec  bool
		r    formula.Number
	}{
		{"sqrt-dec", "sqrt(2,25)", true, formula.Dec(decimal.New(15, -1))},
		{"sqrt-zero-dec", "sqrt(0,0)", true, formula.Dec(decimal.Zero)},
		{"exp-zero", "exp(0)", false, formula.Float(1)},
		{"exp-zero-dec", "exp(0,0)", true, formula.Dec(decimal.NewFromInt(1))},
		{"ln-one", "ln(1)", false, formula.Float(0)},
		{"ln-one-dec", "ln(1,0)", true, formula.Dec(decimal.Zero)},
		{"log2", "log(1024; 2)", false, formula.Float(10)},
		{"log-dec", "log(100,0)", true, formula.Dec(decimal.NewFromInt(2))},
		{"sin", "sin(0)", false, formula.Float(0)},
		{"cos", "cos(0)", false, formula.Float(1)},
		{"floor-neg", "floor(-2,5)", false, formula.Float(-3)},
		{"ceil-dec", "ceil(2,1)", true, formula.Dec(decimal.NewFromInt(3))},
		{"round-int", "round(7)", false, formula.Int(7)},
		{"max-mixed", "max(1; 2,5; 2)", false, formula.Float(2.5)},
		{"min-one", "min(4)", false, formula.Int(4)},
		{"abs-dec", "abs(-1,5)", true, formula.Dec(decimal.New(15, -1))},
		{"milli", "3 milli", true, formula.Dec(decimal.New(3, -3))},
		{"mega", "mega", false, formula.Int(1e6)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := formula.EvalString(c.src, nil, formula.PreferDecimal(c.dec))
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if !r.Equal(c.r) {
				t.Errorf("%q: want %v %v, got %v %v", c.src, c.r.Kind(), c.r, r.Kind(), r)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"pi", math.Pi},
		{"e", math.E},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := formula.EvalString(c.name, nil, formula.PreferDecimal(true))
			if err != nil {
				t.Fatal(err)
			}
			if r.Kind() != formula.Decimal {
				t.Errorf("%s is %v, want Decimal", c.name, r.Kind())
			}
			if r.Float64() != c.want {
				t.Errorf("%s is %v, want %v", c.name, r, c.want)
			}
		})
	}
}

func TestDomainErrors(t *testing.T) {
	cases := []struct {
		src string
		fn  string
		arg int
	}{
		{"sqrt(-1)", "sqrt", 0},
		{"ln(-1,5)", "ln", 0},
		{"log(0)", "log", 1},
		{"log(8; 1)", "log", 2},
		{"acos(-2)", "acos", 0},
	}
	for _, c := range cases {
		_, err := formula.EvalString(c.src, nil)
		var de *formula.DomainError
		if !errors.As(err, &de) {
			t.Errorf("%q: want DomainError, got %v", c.src, err)
			continue
		}
		if de.Func != c.fn || de.Arg != c.arg {
			t.Errorf("%q: want domain error in %s argument %d, got %v", c.src, c.fn, c.arg, err)
		}
	}
}
