package formula

import (
	"errors"
	"fmt"
	"strconv"
)

// stack is the operand stack of an evaluation. Its capacity is the estimated
// depth of the formula, and it never grows past it.
type stack struct {
	v []Number
}

func (s *stack) push(n Number) error {
	if len(s.v) == cap(s.v) {
		return &StackError{Len: len(s.v), Cap: cap(s.v), Msg: "overflow"}
	}
	s.v = append(s.v, n)
	return nil
}

func (s *stack) pop() (Number, error) {
	if len(s.v) == 0 {
		return Number{}, &StackError{Cap: cap(s.v), Msg: "underflow"}
	}
	n := s.v[len(s.v)-1]
	s.v = s.v[:len(s.v)-1]
	return n, nil
}

func (s *stack) top() (Number, error) {
	if len(s.v) == 0 {
		return Number{}, &StackError{Cap: cap(s.v), Msg: "underflow"}
	}
	return s.v[len(s.v)-1], nil
}

// Eval evaluates the formula in env and returns the result. If env is nil,
// the environment given to Compile is used, or an empty Vars if that was nil
// too. Variables missing from the environment evaluate to Empty.
func (f *Formula) Eval(env Environment) (Number, error) {
	if f.code == nil {
		return Number{}, ErrNotCompiled
	}
	if env == nil {
		env = f.env
		if env == nil {
			env = NewVars(nil)
		}
	}
	s := stack{v: make([]Number, 0, f.depth)}
	for _, in := range f.code {
		if err := f.exec(&s, in, env); err != nil {
			return Number{}, err
		}
	}
	if len(s.v) != 1 {
		return Number{}, &StackError{Len: len(s.v), Cap: cap(s.v), Msg: strconv.Itoa(len(s.v)) + " values at end"}
	}
	return s.v[0], nil
}

// exec executes one instruction.
func (f *Formula) exec(s *stack, in instr, env Environment) error {
	switch in.op {
	case opPush:
		return s.push(in.num)
	case opLoad:
		v, ok := env.Lookup(in.name)
		if !ok {
			return s.push(Number{})
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("reading %s: %w", in.name, err)
		}
		n, err := Convert(v, f.dec)
		if err != nil {
			return named(err, in.name)
		}
		return s.push(n)
	case opStore:
		n, err := s.top()
		if err != nil {
			return err
		}
		if err := env.Assign(in.name, n.Host()); err != nil {
			return fmt.Errorf("assigning %s: %w", in.name, err)
		}
		return nil
	case opDelete:
		if err := env.Delete(in.name); err != nil {
			return fmt.Errorf("deleting %s: %w", in.name, err)
		}
		return nil
	case opCall:
		args := make([]any, in.argc)
		for i := in.argc - 1; i >= 0; i-- {
			n, err := s.pop()
			if err != nil {
				return err
			}
			args[i] = n.Host()
		}
		r, err := env.Invoke(in.name, args)
		if err != nil {
			return err
		}
		n, err := Convert(r, f.dec)
		if err != nil {
			return named(err, in.name)
		}
		return s.push(n)
	case opNeg, opNot, opFact:
		x, err := s.pop()
		if err != nil {
			return err
		}
		return s.push(unary(in.op, x, f.dec))
	case opAdd, opSub, opMul, opDiv, opRoot, opPow, opMod, opIdiv, opShl, opShr, opAnd, opOr, opXor:
		y, err := s.pop()
		if err != nil {
			return err
		}
		x, err := s.pop()
		if err != nil {
			return err
		}
		r, err := binary(in.op, x, y, f.dec)
		if err != nil {
			return err
		}
		return s.push(r)
	}
	panic("formula: invalid instruction " + in.String())
}

// EvalString is a shortcut to compile and evaluate a formula.
func EvalString(src string, env Environment, opts ...Option) (Number, error) {
	f, err := Compile(src, env, opts...)
	if err != nil {
		return Number{}, err
	}
	return f.Eval(env)
}

// named attributes a conversion error to the variable or function that
// produced the value.
func named(err error, name string) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		ce.Name = name
		return ce
	}
	return fmt.Errorf("converting %s: %w", name, err)
}
