package formula

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Token is a single lexical element of a formula.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Pos is the byte offset of the token in the source.
	Pos int
	// Len is the byte length of the token.
	Len int
	// Text is the source text of the token.
	Text string
	// Value is the value of a TokenNum.
	Value Number
	// Err describes the problem with a TokenError.
	Err string
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a Token.
type TokenKind uint8

const (
	// TokenEOF marks the end of the input.
	TokenEOF TokenKind = iota
	// TokenError is a malformed token. Its Err field describes the problem.
	TokenError
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenNum is a numeric literal.
	TokenNum

	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenPow       // **
	TokenSlash     // /
	TokenRoot      // //
	TokenBackslash // \
	TokenPercent   // %
	TokenAmp       // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenBang      // !
	TokenShl       // <<
	TokenShr       // >>
	TokenOpen      // (
	TokenClose     // )
	TokenAssign    // =
	TokenSemi      // ;
	TokenComma     // ,
	TokenHash      // #
	TokenColon     // :
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token

// maxExponent bounds the magnitude of literal exponents.
const maxExponent = math.MaxInt16

// Scan scans the token that starts at or after byte offset *cursor in src and
// advances *cursor past it. Calling Scan repeatedly produces the full token
// stream of src, ending with TokenEOF; every other token, including
// TokenError, consumes at least one byte. preferDecimal selects whether
// fractional literals and integer literals too large for int64 are Decimal or
// Double.
func Scan(src string, cursor *int, preferDecimal bool) Token {
	s := scanner{src: src, pos: *cursor, dec: preferDecimal}
	for s.pos < len(s.src) {
		r, sz := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		s.pos += sz
	}
	s.start = s.pos
	tok := s.token()
	*cursor = s.pos
	return tok
}

// Tokens scans all of src. The last token is always TokenEOF.
func Tokens(src string, preferDecimal bool) []Token {
	var toks []Token
	cursor := 0
	for {
		tok := Scan(src, &cursor, preferDecimal)
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

type scanner struct {
	src   string
	start int
	pos   int
	dec   bool
}

// eof is returned by peek at the end of the input.
const eof = -1

func (s *scanner) peek() rune {
	if s.pos >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) advance() {
	_, sz := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += sz
}

func (s *scanner) emit(kind TokenKind) Token {
	return Token{Kind: kind, Pos: s.start, Len: s.pos - s.start, Text: s.src[s.start:s.pos]}
}

func (s *scanner) errorf(format string, args ...any) Token {
	tok := s.emit(TokenError)
	tok.Err = fmt.Sprintf(format, args...)
	return tok
}

// ops maps single-rune operators to their token kinds. Operators that may be
// doubled are handled in token.
var ops = map[rune]TokenKind{
	'+':  TokenPlus,
	'-':  TokenMinus,
	'\\': TokenBackslash,
	'%':  TokenPercent,
	'&':  TokenAmp,
	'|':  TokenPipe,
	'^':  TokenCaret,
	'~':  TokenTilde,
	'!':  TokenBang,
	'(':  TokenOpen,
	')':  TokenClose,
	'=':  TokenAssign,
	';':  TokenSemi,
	',':  TokenComma,
	'#':  TokenHash,
	':':  TokenColon,
}

func (s *scanner) token() Token {
	r := s.peek()
	switch {
	case r == eof:
		return s.emit(TokenEOF)
	case isDigit(r):
		return s.number()
	case r == '_', unicode.IsLetter(r):
		return s.ident()
	}
	s.advance()
	switch r {
	case '*':
		return s.double('*', TokenStar, TokenPow)
	case '/':
		return s.double('/', TokenSlash, TokenRoot)
	case '<':
		if s.peek() != '<' {
			return s.errorf("unexpected %q; did you mean <<?", r)
		}
		s.advance()
		return s.emit(TokenShl)
	case '>':
		if s.peek() != '>' {
			return s.errorf("unexpected %q; did you mean >>?", r)
		}
		s.advance()
		return s.emit(TokenShr)
	}
	if k, ok := ops[r]; ok {
		return s.emit(k)
	}
	return s.errorf("unexpected %q", r)
}

// double emits two if the next rune is r and one otherwise.
func (s *scanner) double(r rune, one, two TokenKind) Token {
	if s.peek() == r {
		s.advance()
		return s.emit(two)
	}
	return s.emit(one)
}

func (s *scanner) ident() Token {
	for r := s.peek(); r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r); r = s.peek() {
		s.advance()
	}
	return s.emit(TokenIdent)
}

func (s *scanner) number() Token {
	if s.peek() == '0' && s.pos+1 < len(s.src) {
		switch s.src[s.pos+1] {
		case 'x', 'X':
			s.pos += 2
			return s.based(16, "hexadecimal")
		case 'o', 'O':
			s.pos += 2
			return s.based(8, "octal")
		case 'b', 'B':
			s.pos += 2
			return s.based(2, "binary")
		}
	}
	acc := accum{dec: s.dec}
	for r := s.peek(); isDigit(r); r = s.peek() {
		acc.push(10, int64(r-'0'))
		s.advance()
	}
	if s.fraction() || s.peek() == 'e' || s.peek() == 'E' {
		return s.real()
	}
	return s.num(acc.number())
}

// fraction reports whether the scanner is at a fractional separator. A comma
// is only a separator when a digit follows it.
func (s *scanner) fraction() bool {
	r := s.peek()
	return (r == ',' || r == '.') && s.pos+1 < len(s.src) && isDigit(rune(s.src[s.pos+1]))
}

// real finishes scanning a literal with a fraction or exponent. The integer
// digits have already been consumed.
func (s *scanner) real() Token {
	var b strings.Builder
	b.WriteString(s.src[s.start:s.pos])
	if s.fraction() {
		s.advance()
		b.WriteByte('.')
		for r := s.peek(); isDigit(r); r = s.peek() {
			b.WriteRune(r)
			s.advance()
		}
	}
	if r := s.peek(); r == 'e' || r == 'E' {
		s.advance()
		neg := false
		switch s.peek() {
		case '-':
			neg = true
			s.advance()
		case '+':
			s.advance()
		}
		if !isDigit(s.peek()) {
			return s.errorf("missing exponent digits in %q", s.src[s.start:s.pos])
		}
		exp := 0
		for r := s.peek(); isDigit(r); r = s.peek() {
			if exp <= maxExponent {
				exp = exp*10 + int(r-'0')
			}
			s.advance()
		}
		if exp > maxExponent {
			return s.errorf("exponent of %q out of range", s.src[s.start:s.pos])
		}
		if neg {
			exp = -exp
		}
		b.WriteByte('e')
		b.WriteString(strconv.Itoa(exp))
	}
	text := b.String()
	if s.dec {
		d, err := decimal.NewFromString(text)
		if err != nil {
			return s.errorf("invalid number %q: %v", s.src[s.start:s.pos], err)
		}
		return s.num(Dec(d))
	}
	// ParseFloat returns ±Inf or zero with ErrRange, which is the value
	// we want.
	f, _ := strconv.ParseFloat(text, 64)
	return s.num(Float(f))
}

// based scans the digits of a 0x, 0o, or 0b literal.
func (s *scanner) based(base int64, name string) Token {
	acc := accum{dec: s.dec}
	n := 0
	for {
		r := s.peek()
		d := digitVal(r)
		if d < 0 || (d >= base && !isDigit(r)) {
			break
		}
		if d >= base {
			for isDigit(s.peek()) {
				s.advance()
			}
			return s.errorf("invalid digit %q in %s literal %q", r, name, s.src[s.start:s.pos])
		}
		acc.push(base, d)
		n++
		s.advance()
	}
	if n == 0 {
		return s.errorf("%s literal %q has no digits", name, s.src[s.start:s.pos])
	}
	return s.num(acc.number())
}

func (s *scanner) num(n Number) Token {
	tok := s.emit(TokenNum)
	tok.Value = n
	return tok
}

// accum accumulates the digits of an integer literal. It starts as an int64
// and re-bases to an exact big.Int when the next digit would overflow. The
// big value becomes a decimal or float64 only once all digits are in, so a
// Double literal is the nearest float64 to its text.
type accum struct {
	kind Kind
	i    int64
	b    *big.Int
	dec  bool
}

func (a *accum) push(base, digit int64) {
	switch a.kind {
	case Empty, Integer:
		if a.i <= (math.MaxInt64-digit)/base {
			a.kind = Integer
			a.i = a.i*base + digit
			return
		}
		a.kind, a.b = Double, big.NewInt(a.i)
		if a.dec {
			a.kind = Decimal
		}
		a.push(base, digit)
	case Decimal, Double:
		a.b.Mul(a.b, big.NewInt(base))
		a.b.Add(a.b, big.NewInt(digit))
	}
}

func (a *accum) number() Number {
	switch a.kind {
	case Empty, Integer:
		return Int(a.i)
	case Decimal:
		if d := decimal.NewFromBigInt(a.b, 0); decOK(d) {
			return Dec(d)
		}
		fallthrough
	case Double:
		f, _ := new(big.Float).SetInt(a.b).Float64()
		return Float(f)
	}
	panic(badKind(a.kind))
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// digitVal returns the value of r as a hexadecimal digit, or -1.
func digitVal(r rune) int64 {
	switch {
	case '0' <= r && r <= '9':
		return int64(r - '0')
	case 'a' <= r && r <= 'f':
		return int64(r-'a') + 10
	case 'A' <= r && r <= 'F':
		return int64(r-'A') + 10
	}
	return -1
}
