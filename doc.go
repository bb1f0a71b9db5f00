// Package formula implements a calculator for single-line arithmetic
// formulas evaluated against a variable environment.
//
// A formula is compiled once into a straight-line program for a small stack
// machine, then evaluated as many times as needed. Numbers are Integer while
// they fit in 64 bits and divide evenly; operations that overflow or leave a
// fraction move to Decimal or Double, chosen by the PreferDecimal option.
//
// Operators, loosest first:
//
//	&  |  ^         bitwise and, or, xor (on integers)
//	<< >>           shifts (on integers)
//	+  -            addition, subtraction
//	*  /  %  \      multiplication, division, remainder, integer division;
//	                "2 x" and "2x" multiply
//	** //           power, root: "8 // 3" is the cube root of 8
//	- + ~ #         prefix negation, plus, complement, delete-after-read
//	!               postfix factorial
//
// All binary operators are left-associative, so "2**3**2" is 64. Literals
// may be written as 42, 1,5 or 1.5, 2e3, 0x2A, 0o52, or 0b101010. A comma
// followed by a digit is a fractional separator; write "f(1; 2)" or
// "f(1, 2)" to pass two arguments. "x = expr" assigns and yields the value.
package formula
