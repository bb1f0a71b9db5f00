package formula_test

import (
	"fmt"

	"github.com/zephyrtronium/formula"
)

type nargin struct{}

func (nargin) CanCall(n int) bool {
	return true
}

func (nargin) Call(args []any) (any, error) {
	return len(args), nil
}

func ExampleFunc() {
	vars := formula.NewVars(map[string]formula.Func{"nargin": nargin{}})

	a, _ := formula.Compile("nargin", vars)
	b, _ := formula.Compile("nargin(100)", vars)
	c, _ := formula.Compile("nargin(3; 2; 1)", vars)
	for _, f := range []*formula.Formula{a, b, c} {
		r, _ := f.Eval(nil)
		fmt.Println(r, f)
	}

	// Output:
	// 0 nargin
	// 1 nargin(100)
	// 3 nargin(3; 2; 1)
}

func ExampleVariadic() {
	hypot := formula.Variadic(2, 2, func(xs []formula.Number) (formula.Number, error) {
		a, b := xs[0].Float64(), xs[1].Float64()
		return formula.Float(a*a + b*b), nil
	})
	vars := formula.NewVars(nil).Func("hypot2", hypot)
	r, err := formula.EvalString("sqrt(hypot2(3; 4))", vars)
	fmt.Println(r, err)
	_, err = formula.EvalString("hypot2(3)", vars)
	fmt.Println(err)

	// Output:
	// 5 <nil>
	// cannot call hypot2 with 1 arguments
}
