package formula

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type lexToken struct {
	kind TokenKind
	text string
	pos  int
	val  Number
}

func TestTokens(t *testing.T) {
	cases := []struct {
		src    string
		dec    bool
		tokens []lexToken
	}{
		// spaces
		{"", false, nil},
		{" \t \r\n ", false, nil},
		// integers
		{"0", false, []lexToken{{TokenNum, "0", 0, Int(0)}}},
		{"9876543210", false, []lexToken{{TokenNum, "9876543210", 0, Int(9876543210)}}},
		{"1 0", false, []lexToken{{TokenNum, "1", 0, Int(1)}, {TokenNum, "0", 2, Int(0)}}},
		{"9223372036854775807", false, []lexToken{{TokenNum, "9223372036854775807", 0, Int(math.MaxInt64)}}},
		{"9223372036854775808", false, []lexToken{{TokenNum, "9223372036854775808", 0, Float(9223372036854775808)}}},
		{"9223372036854775808", true, []lexToken{{TokenNum, "9223372036854775808", 0, Dec(decimal.RequireFromString("9223372036854775808"))}}},
		{"0x1F", false, []lexToken{{TokenNum, "0x1F", 0, Int(31)}}},
		{"0o17", false, []lexToken{{TokenNum, "0o17", 0, Int(15)}}},
		{"0b101", false, []lexToken{{TokenNum, "0b101", 0, Int(5)}}},
		{"0x10000000000000000", true, []lexToken{{TokenNum, "0x10000000000000000", 0, Dec(decimal.RequireFromString("18446744073709551616"))}}},
		{"123456789012345678901234567890", false, []lexToken{{TokenNum, "123456789012345678901234567890", 0, Float(1.2345678901234568e+29)}}},
		{"123456789012345678901234567890", true, []lexToken{{TokenNum, "123456789012345678901234567890", 0, Dec(decimal.RequireFromString("123456789012345678901234567890"))}}},
		{"0xfffffffffffffffff", false, []lexToken{{TokenNum, "0xfffffffffffffffff", 0, Float(0x1p68)}}},
		// fractions and exponents
		{"1,5", false, []lexToken{{TokenNum, "1,5", 0, Float(1.5)}}},
		{"1.5", false, []lexToken{{TokenNum, "1.5", 0, Float(1.5)}}},
		{"1,5", true, []lexToken{{TokenNum, "1,5", 0, Dec(decimal.New(15, -1))}}},
		{"2e3", false, []lexToken{{TokenNum, "2e3", 0, Float(2000)}}},
		{"2E+3", true, []lexToken{{TokenNum, "2E+3", 0, Dec(decimal.NewFromInt(2000))}}},
		{"25e-1", false, []lexToken{{TokenNum, "25e-1", 0, Float(2.5)}}},
		{"1,0e1", false, []lexToken{{TokenNum, "1,0e1", 0, Float(10)}}},
		{"1e400", false, []lexToken{{TokenNum, "1e400", 0, Float(math.Inf(1))}}},
		// separators
		{"1,x", false, []lexToken{{TokenNum, "1", 0, Int(1)}, {TokenComma, ",", 1, Number{}}, {TokenIdent, "x", 2, Number{}}}},
		{"1, 2", false, []lexToken{{TokenNum, "1", 0, Int(1)}, {TokenComma, ",", 1, Number{}}, {TokenNum, "2", 3, Int(2)}}},
		{"1;2", false, []lexToken{{TokenNum, "1", 0, Int(1)}, {TokenSemi, ";", 1, Number{}}, {TokenNum, "2", 2, Int(2)}}},
		// identifiers
		{"e", false, []lexToken{{TokenIdent, "e", 0, Number{}}}},
		{"e1", false, []lexToken{{TokenIdent, "e1", 0, Number{}}}},
		{"π", false, []lexToken{{TokenIdent, "π", 0, Number{}}}},
		{"_1234_", false, []lexToken{{TokenIdent, "_1234_", 0, Number{}}}},
		{"2x", false, []lexToken{{TokenNum, "2", 0, Int(2)}, {TokenIdent, "x", 1, Number{}}}},
		{"e(", false, []lexToken{{TokenIdent, "e", 0, Number{}}, {TokenOpen, "(", 1, Number{}}}},
		// operators
		{"+-*/\\%", false, []lexToken{
			{TokenPlus, "+", 0, Number{}},
			{TokenMinus, "-", 1, Number{}},
			{TokenStar, "*", 2, Number{}},
			{TokenSlash, "/", 3, Number{}},
			{TokenBackslash, "\\", 4, Number{}},
			{TokenPercent, "%", 5, Number{}},
		}},
		{"*** ///", false, []lexToken{
			{TokenPow, "**", 0, Number{}},
			{TokenStar, "*", 2, Number{}},
			{TokenRoot, "//", 4, Number{}},
			{TokenSlash, "/", 6, Number{}},
		}},
		{"&|^~!<<>>", false, []lexToken{
			{TokenAmp, "&", 0, Number{}},
			{TokenPipe, "|", 1, Number{}},
			{TokenCaret, "^", 2, Number{}},
			{TokenTilde, "~", 3, Number{}},
			{TokenBang, "!", 4, Number{}},
			{TokenShl, "<<", 5, Number{}},
			{TokenShr, ">>", 7, Number{}},
		}},
		{"(x)=#:", false, []lexToken{
			{TokenOpen, "(", 0, Number{}},
			{TokenIdent, "x", 1, Number{}},
			{TokenClose, ")", 2, Number{}},
			{TokenAssign, "=", 3, Number{}},
			{TokenHash, "#", 4, Number{}},
			{TokenColon, ":", 5, Number{}},
		}},
		// errors
		{"$", false, []lexToken{{TokenError, "$", 0, Number{}}}},
		{"a$b", false, []lexToken{{TokenIdent, "a", 0, Number{}}, {TokenError, "$", 1, Number{}}, {TokenIdent, "b", 2, Number{}}}},
		{"1.", false, []lexToken{{TokenNum, "1", 0, Int(1)}, {TokenError, ".", 1, Number{}}}},
		{"1e", false, []lexToken{{TokenError, "1e", 0, Number{}}}},
		{"1e+x", false, []lexToken{{TokenError, "1e+", 0, Number{}}, {TokenIdent, "x", 3, Number{}}}},
		{"1e99999", false, []lexToken{{TokenError, "1e99999", 0, Number{}}}},
		{"0x", false, []lexToken{{TokenError, "0x", 0, Number{}}}},
		{"0o78", false, []lexToken{{TokenError, "0o78", 0, Number{}}}},
		{"0b12", false, []lexToken{{TokenError, "0b12", 0, Number{}}}},
		{"<", false, []lexToken{{TokenError, "<", 0, Number{}}}},
		{"> 1", false, []lexToken{{TokenError, ">", 0, Number{}}, {TokenNum, "1", 2, Int(1)}}},
	}
	for _, c := range cases {
		toks := Tokens(c.src, c.dec)
		if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
			t.Errorf("scanning %q: token stream does not end with EOF: %v", c.src, toks)
			continue
		}
		toks = toks[:len(toks)-1]
		if len(toks) != len(c.tokens) {
			t.Errorf("scanning %q: want %d tokens, got %v", c.src, len(c.tokens), toks)
			continue
		}
		for i, want := range c.tokens {
			got := toks[i]
			if got.Kind != want.kind || got.Text != want.text || got.Pos != want.pos || got.Len != len(want.text) {
				t.Errorf("scanning %q: token %d: want %v:%s@%d, got %v", c.src, i, want.kind, want.text, want.pos, got)
			}
			if got.Kind == TokenNum && !got.Value.Equal(want.val) {
				t.Errorf("scanning %q: token %d: want value %v %v, got %v %v", c.src, i, want.val.Kind(), want.val, got.Value.Kind(), got.Value)
			}
			if got.Kind == TokenError && got.Err == "" {
				t.Errorf("scanning %q: token %d: error has no message", c.src, i)
			}
		}
	}
}

func TestScanMessages(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{"1e", "missing exponent digits"},
		{"1e40000", "out of range"},
		{"0b", "has no digits"},
		{"0o9", "invalid digit '9' in octal literal"},
		{"<", "did you mean <<?"},
		{"@", "unexpected '@'"},
	}
	for _, c := range cases {
		cursor := 0
		tok := Scan(c.src, &cursor, false)
		if tok.Kind != TokenError {
			t.Errorf("scanning %q: want error, got %v", c.src, tok)
			continue
		}
		if !strings.Contains(tok.Err, c.msg) {
			t.Errorf("scanning %q: want message containing %q, got %q", c.src, c.msg, tok.Err)
		}
		if cursor == 0 {
			t.Errorf("scanning %q: error token did not advance the cursor", c.src)
		}
	}
}

func TestScanRestart(t *testing.T) {
	const src = "x1 + 0x2"
	var kinds []TokenKind
	cursor := 0
	for {
		tok := Scan(src, &cursor, false)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokenEOF {
			break
		}
	}
	want := []TokenKind{TokenIdent, TokenPlus, TokenNum, TokenEOF}
	if len(kinds) != len(want) {
		t.Fatalf("want %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: want %v, got %v", i, want[i], kinds[i])
		}
	}
	if cursor != len(src) {
		t.Errorf("cursor at %d after EOF, want %d", cursor, len(src))
	}
	// Scanning again at the end yields EOF again.
	if tok := Scan(src, &cursor, false); tok.Kind != TokenEOF {
		t.Errorf("rescan at end: want EOF, got %v", tok)
	}
}
