package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEval(f *testing.F) {
	f.Add("x", false)
	f.Add("y = x**2 - 1", true)
	f.Add("2x//3!", false)
	f.Add("#x + f(1; 2,5)", true)
	f.Add("0x7fffffffffffffff * 0b11 << 2", false)
	f.Fuzz(func(t *testing.T, s string, dec bool) {
		vars := formula.NewVars(nil).Set("x", int64(7))
		_, err := formula.EvalString(s, vars, formula.PreferDecimal(dec))
		var se *formula.StackError
		if errors.As(err, &se) {
			t.Errorf("%q: %v", s, err)
		}
	})
}
