package formula

import (
	"slices"
	"strconv"
)

// expr     = bitwise
// bitwise  = shift { ('&' | '|' | '^') shift }
// shift    = additive { ('<<' | '>>') additive }
// additive = product { ('+' | '-') product }
// product  = power { ('*' | '/' | '%' | '\' | <ident>) power }
// power    = primary { ('**' | '//') primary }
// primary  = { '+' | '-' | '~' | '#' } ( '(' expr ')' | ident [ tail ] | num ) [ '!' ]
// tail     = '=' expr | '(' [ expr { (',' | ';') expr } [ ',' | ';' ] ] ')'

// parser generates code for a formula while tracking the height of the
// operand stack the code will need.
type parser struct {
	src    string
	cursor int
	tok    Token
	dec    bool

	code   []instr
	height int
	depth  int
	names  map[string]bool
}

// compiled is the result of parsing a formula.
type compiled struct {
	code  []instr
	depth int
	names []string
}

// parse compiles src to a straight-line instruction sequence.
func parse(src string, preferDecimal bool) (compiled, error) {
	p := parser{
		src:   src,
		dec:   preferDecimal,
		names: make(map[string]bool),
	}
	if err := p.next(); err != nil {
		return compiled{}, err
	}
	if err := p.expr(); err != nil {
		return compiled{}, err
	}
	if p.tok.Kind != TokenEOF {
		return compiled{}, p.unexpected()
	}
	if p.height != 1 {
		panic("formula: generated code leaves " + strconv.Itoa(p.height) + " values for " + strconv.Quote(src))
	}
	c := compiled{
		code:  p.code,
		depth: p.depth,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		c.names = append(c.names, k)
	}
	slices.Sort(c.names)
	return c, nil
}

// next scans the next token into p.tok.
func (p *parser) next() error {
	p.tok = Scan(p.src, &p.cursor, p.dec)
	if p.tok.Kind == TokenError {
		return p.fail(p.tok, p.tok.Err)
	}
	return nil
}

func (p *parser) fail(tok Token, msg string) error {
	return &SyntaxError{Offset: tok.Pos, Len: tok.Len, Msg: msg}
}

// unexpected creates an error for the current token.
func (p *parser) unexpected() error {
	if p.tok.Kind == TokenEOF {
		return p.fail(p.tok, "unexpected end of formula")
	}
	return p.fail(p.tok, "unexpected "+strconv.Quote(p.tok.Text))
}

func (p *parser) expr() error {
	return p.binary(p.shift, bitop)
}

func (p *parser) shift() error {
	return p.binary(p.additive, shiftop)
}

func (p *parser) additive() error {
	return p.binary(p.product, addop)
}

func (p *parser) product() error {
	return p.binary(p.power, mulop)
}

func (p *parser) power() error {
	return p.binary(p.primary, powop)
}

// binary parses a left-associative sequence of operands joined by the
// operators that opfor recognizes.
func (p *parser) binary(operand func() error, opfor func(TokenKind) opcode) error {
	if err := operand(); err != nil {
		return err
	}
	for {
		op := opfor(p.tok.Kind)
		if op == opNone {
			return nil
		}
		// An identifier directly after an operand is an implicit
		// multiplication; it begins the next operand.
		if p.tok.Kind != TokenIdent {
			if err := p.next(); err != nil {
				return err
			}
		}
		if err := operand(); err != nil {
			return err
		}
		p.emitBinary(op)
	}
}

func bitop(k TokenKind) opcode {
	switch k {
	case TokenAmp:
		return opAnd
	case TokenPipe:
		return opOr
	case TokenCaret:
		return opXor
	default:
		return opNone
	}
}

func shiftop(k TokenKind) opcode {
	switch k {
	case TokenShl:
		return opShl
	case TokenShr:
		return opShr
	default:
		return opNone
	}
}

func addop(k TokenKind) opcode {
	switch k {
	case TokenPlus:
		return opAdd
	case TokenMinus:
		return opSub
	default:
		return opNone
	}
}

func mulop(k TokenKind) opcode {
	switch k {
	case TokenStar, TokenIdent:
		return opMul
	case TokenSlash:
		return opDiv
	case TokenPercent:
		return opMod
	case TokenBackslash:
		return opIdiv
	default:
		return opNone
	}
}

func powop(k TokenKind) opcode {
	switch k {
	case TokenPow:
		return opPow
	case TokenRoot:
		return opRoot
	default:
		return opNone
	}
}

func (p *parser) primary() error {
	var neg, not, del bool
	hash := p.tok
prefix:
	for {
		switch p.tok.Kind {
		case TokenPlus:
		case TokenMinus:
			neg = !neg
		case TokenTilde:
			not = !not
		case TokenHash:
			del = !del
			hash = p.tok
		default:
			break prefix
		}
		if err := p.next(); err != nil {
			return err
		}
	}
	tok := p.tok
	switch tok.Kind {
	case TokenOpen:
		if del {
			return p.fail(hash, "# must precede a variable name")
		}
		if err := p.next(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		if p.tok.Kind != TokenClose {
			return p.fail(p.tok, "expected ) to close ( at "+strconv.Itoa(tok.Pos+1))
		}
		if err := p.next(); err != nil {
			return err
		}
	case TokenIdent:
		if err := p.next(); err != nil {
			return err
		}
		switch p.tok.Kind {
		case TokenAssign:
			if del {
				return p.fail(hash, "cannot delete an assignment")
			}
			if err := p.next(); err != nil {
				return err
			}
			if err := p.expr(); err != nil {
				return err
			}
			p.names[tok.Text] = true
			p.emit(instr{op: opStore, name: tok.Text})
		case TokenOpen:
			if del {
				return p.fail(hash, "cannot delete a function call")
			}
			if err := p.call(tok); err != nil {
				return err
			}
		default:
			p.names[tok.Text] = true
			p.emit(instr{op: opLoad, name: tok.Text})
			if del {
				p.emit(instr{op: opDelete, name: tok.Text})
			}
		}
	case TokenNum:
		if del {
			return p.fail(hash, "# must precede a variable name")
		}
		p.emit(instr{op: opPush, num: tok.Value})
		if err := p.next(); err != nil {
			return err
		}
	default:
		return p.unexpected()
	}
	if p.tok.Kind == TokenBang {
		if err := p.next(); err != nil {
			return err
		}
		p.emitUnary(opFact)
	}
	if not {
		p.emitUnary(opNot)
	}
	if neg {
		p.emitUnary(opNeg)
	}
	return nil
}

// call parses the argument list of a call to fn. The current token is the
// open parenthesis.
func (p *parser) call(fn Token) error {
	open := p.tok
	if err := p.next(); err != nil {
		return err
	}
	// Reserve the result slot.
	p.grow(1)
	argc := 0
	for p.tok.Kind != TokenClose {
		if p.tok.Kind == TokenEOF {
			return p.fail(p.tok, "expected ) to close ( at "+strconv.Itoa(open.Pos+1))
		}
		if err := p.expr(); err != nil {
			return err
		}
		argc++
		switch p.tok.Kind {
		case TokenComma, TokenSemi:
			if err := p.next(); err != nil {
				return err
			}
		case TokenClose:
		default:
			return p.fail(p.tok, "expected , ; or ) in arguments to "+fn.Text)
		}
	}
	if err := p.next(); err != nil {
		return err
	}
	p.emit(instr{op: opCall, name: fn.Text, argc: argc})
	return nil
}

// emit appends an instruction and updates the stack height.
func (p *parser) emit(in instr) {
	p.code = append(p.code, in)
	p.grow(in.effect())
}

func (p *parser) grow(n int) {
	p.height += n
	if p.height > p.depth {
		p.depth = p.height
	}
}

// emitBinary emits a binary operator, folding it if both operands are
// constants and the operation succeeds.
func (p *parser) emitBinary(op opcode) {
	if n := len(p.code); n >= 2 && p.code[n-2].op == opPush && p.code[n-1].op == opPush {
		if r, err := binary(op, p.code[n-2].num, p.code[n-1].num, p.dec); err == nil {
			p.code = p.code[:n-2]
			p.height -= 2
			p.emit(instr{op: opPush, num: r})
			return
		}
	}
	p.emit(instr{op: op})
}

// emitUnary emits a unary operator, folding it into a constant operand.
func (p *parser) emitUnary(op opcode) {
	if n := len(p.code); n >= 1 && p.code[n-1].op == opPush {
		p.code[n-1].num = unary(op, p.code[n-1].num, p.dec)
		return
	}
	p.emit(instr{op: op})
}
