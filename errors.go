package formula

import (
	"errors"
	"fmt"
	"strconv"
)

// SyntaxError is an error indicating a malformed token or a grammar
// violation. It implements InputError.
type SyntaxError struct {
	// Offset is the byte offset of the token that caused the error.
	Offset int
	// Len is the byte length of that token. It is zero at the end of input.
	Len int
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Offset, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Offset
}

// errpos is a shortcut to create an error message with a position. Positions
// are shown 1-based.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos+1) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset of the start of the token that caused the
	// error.
	Pos() int
}

var _ InputError = (*SyntaxError)(nil)

// ErrNotCompiled is returned when evaluating a formula that did not compile.
var ErrNotCompiled = errors.New("formula: not compiled")

// StackError indicates that a compiled formula left the operand stack in an
// inconsistent state. It signals a bug in code generation.
type StackError struct {
	// Len is the stack height when the inconsistency was detected.
	Len int
	// Cap is the estimated stack depth.
	Cap int
	// Msg describes the inconsistency.
	Msg string
}

func (err *StackError) Error() string {
	return fmt.Sprintf("formula: inconsistent stack: %s (height %d, estimated depth %d)", err.Msg, err.Len, err.Cap)
}

// ConversionError is an error converting a host value to a Number.
type ConversionError struct {
	// Name is the variable or function that produced the value, if any.
	Name string
	// Value is the value that could not be converted.
	Value any
}

func (err *ConversionError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("cannot convert %T to a number", err.Value)
	}
	return fmt.Sprintf("cannot convert %T from %s to a number", err.Value, strconv.Quote(err.Name))
}

// NameError is an error from invoking a function that is missing from the
// environment.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined function: " + strconv.Quote(err.Name)
}

// CallError is an error indicating a function call with the wrong number of
// arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments passed.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X Number
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// ArithmeticError is an integer operation with no result, i.e. division by
// zero.
type ArithmeticError struct {
	// Op is the operator.
	Op string
	// Msg describes the problem.
	Msg string
}

func (err *ArithmeticError) Error() string {
	return "operator " + err.Op + ": " + err.Msg
}
