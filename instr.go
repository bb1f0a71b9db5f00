package formula

import (
	"strconv"
	"strings"
)

// instr is a single instruction of a compiled formula.
type instr struct {
	op opcode
	// num is the constant for opPush.
	num Number
	// name is the variable or function name for opLoad, opStore, opDelete,
	// and opCall.
	name string
	// argc is the argument count for opCall.
	argc int
}

type opcode uint8

const (
	opNone opcode = iota

	opPush   // push num
	opLoad   // push lookup(name)
	opStore  // assign top to name without popping
	opDelete // delete name
	opCall   // pop argc args, push name(args...)

	opNeg  // negate top
	opNot  // complement top
	opFact // factorial of top

	opAdd  // pop y, x; push x+y
	opSub  // pop y, x; push x-y
	opMul  // pop y, x; push x*y
	opDiv  // pop y, x; push x/y
	opRoot // pop y, x; push x**(1/y)
	opPow  // pop y, x; push x**y

	// Integer-only operators. Operands are truncated to Integer.
	opMod  // pop y, x; push x%y
	opIdiv // pop y, x; push x\y
	opShl  // pop y, x; push x<<y
	opShr  // pop y, x; push x>>y
	opAnd  // pop y, x; push x&y
	opOr   // pop y, x; push x|y
	opXor  // pop y, x; push x^y
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=opcode -trimprefix=op

// integer reports whether op truncates its operands to Integer.
func (op opcode) integer() bool {
	return op >= opMod
}

// unary reports whether op is a unary operator.
func (op opcode) unary() bool {
	return opNeg <= op && op <= opFact
}

// binary reports whether op is a binary operator.
func (op opcode) binary() bool {
	return op >= opAdd
}

// effect is the net change in stack height from executing the instruction.
// A call's result slot is reserved by the code generator before its arguments
// are pushed, so the call itself only removes its arguments.
func (in instr) effect() int {
	switch {
	case in.op == opPush, in.op == opLoad:
		return 1
	case in.op == opStore, in.op == opDelete, in.op.unary():
		return 0
	case in.op == opCall:
		return -in.argc
	case in.op.binary():
		return -1
	}
	panic("formula: invalid instruction " + in.op.String())
}

func (in instr) String() string {
	op := strings.ToLower(in.op.String())
	switch in.op {
	case opPush:
		return op + " " + in.num.Kind().String() + "(" + in.num.String() + ")"
	case opLoad, opStore, opDelete:
		return op + " " + in.name
	case opCall:
		return op + " " + in.name + "/" + strconv.Itoa(in.argc)
	default:
		return op
	}
}
