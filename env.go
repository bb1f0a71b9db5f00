package formula

import (
	"slices"
)

// Environment is the store of variables and functions a formula is evaluated
// against. Name resolution must be synchronous.
type Environment interface {
	// Lookup returns the value of a variable. The second result is false if
	// there is no such variable. A value that is an error fails the
	// evaluation reading it.
	Lookup(name string) (any, bool)
	// Assign sets the value of a variable.
	Assign(name string, v any) error
	// Delete removes a variable. Deleting a missing variable is not an error.
	Delete(name string) error
	// Invoke calls a function with positional arguments. A nil result is
	// treated as Empty.
	Invoke(name string, args []any) (any, error)
}

// Vars is an Environment holding variables and functions in maps. It is not
// safe to use a Vars concurrently.
type Vars struct {
	vals  map[string]any
	funcs map[string]Func
	watch []func(name string, old, val any)
}

var _ Environment = (*Vars)(nil)

// NewVars creates an environment with the given functions. If funcs is nil,
// the environment has DefaultFuncs. The map is copied.
func NewVars(funcs map[string]Func) *Vars {
	if funcs == nil {
		funcs = DefaultFuncs()
	} else {
		funcs = copyFuncs(funcs)
	}
	return &Vars{vals: make(map[string]any), funcs: funcs}
}

// Lookup returns the value of a variable. Functions that can be called with
// no arguments also act as variables, so constants such as pi can be written
// without parentheses. A variable shadows a function of the same name. If
// such a function fails, its error is the value.
func (v *Vars) Lookup(name string) (any, bool) {
	if x, ok := v.vals[name]; ok {
		return x, true
	}
	if fn := v.funcs[name]; fn != nil && fn.CanCall(0) {
		r, err := fn.Call(nil)
		if err != nil {
			return err, true
		}
		return r, true
	}
	return nil, false
}

// Assign sets a variable and notifies watchers.
func (v *Vars) Assign(name string, x any) error {
	old := v.vals[name]
	v.vals[name] = x
	v.notify(name, old, x)
	return nil
}

// Set sets a variable. Returns v for chaining.
func (v *Vars) Set(name string, x any) *Vars {
	v.Assign(name, x)
	return v
}

// Delete removes a variable and notifies watchers with a nil new value.
func (v *Vars) Delete(name string) error {
	old, ok := v.vals[name]
	if !ok {
		return nil
	}
	delete(v.vals, name)
	v.notify(name, old, nil)
	return nil
}

// Invoke calls a function. A variable holding a Func may also be invoked.
func (v *Vars) Invoke(name string, args []any) (any, error) {
	fn := v.funcs[name]
	if fn == nil {
		fn, _ = v.vals[name].(Func)
	}
	if fn == nil {
		return nil, &NameError{Name: name}
	}
	if !fn.CanCall(len(args)) {
		return nil, &CallError{Func: name, Len: len(args)}
	}
	return fn.Call(args)
}

// Func sets a function. A nil fn removes it. Returns v for chaining.
func (v *Vars) Func(name string, fn Func) *Vars {
	if fn == nil {
		delete(v.funcs, name)
		return v
	}
	v.funcs[name] = fn
	return v
}

// Names returns the sorted names of the variables in v.
func (v *Vars) Names() []string {
	names := make([]string, 0, len(v.vals))
	for k := range v.vals {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Watch registers a function to be called after each change to a variable.
// Deletions report a nil new value.
func (v *Vars) Watch(fn func(name string, old, val any)) {
	v.watch = append(v.watch, fn)
}

func (v *Vars) notify(name string, old, val any) {
	for _, fn := range v.watch {
		fn(name, old, val)
	}
}

// Clone creates a copy of v with the same variables and functions. Watchers
// are not copied.
func (v *Vars) Clone() *Vars {
	n := Vars{
		vals:  make(map[string]any, len(v.vals)),
		funcs: copyFuncs(v.funcs),
	}
	for k, x := range v.vals {
		n.vals[k] = x
	}
	return &n
}

func copyFuncs(funcs map[string]Func) map[string]Func {
	m := make(map[string]Func, len(funcs))
	for k, fn := range funcs {
		if fn != nil {
			m[k] = fn
		}
	}
	return m
}
