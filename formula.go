package formula

import (
	"errors"
	"log/slog"
	"strings"
)

// Formula is a compiled formula. A Formula that failed to compile has no
// code; evaluating it returns ErrNotCompiled.
type Formula struct {
	src   string
	code  []instr
	depth int
	dec   bool
	env   Environment
	names []string
}

// Option is an option for compiling formulas.
type Option interface {
	option(*config)
}

type config struct {
	dec bool
	log *slog.Logger
}

type (
	decopt bool
	logopt struct{ l *slog.Logger }
)

func (o decopt) option(c *config) { c.dec = bool(o) }
func (o logopt) option(c *config) { c.log = o.l }

// PreferDecimal selects whether non-integer results are Decimal rather than
// Double. The default is Double.
func PreferDecimal(dec bool) Option {
	return decopt(dec)
}

// Logger sets the logger that receives compile diagnostics. The default is
// slog.Default().
func Logger(l *slog.Logger) Option {
	return logopt{l}
}

// Compile compiles src. The result is never nil. If src is malformed, the
// returned Formula is invalid and the error is a *SyntaxError locating the
// problem. env becomes the environment for Eval(nil); Compile itself does not
// consult it, so undefined names are not compile errors.
func Compile(src string, env Environment, opts ...Option) (*Formula, error) {
	cfg := config{log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt.option(&cfg)
		}
	}
	f := &Formula{src: src, depth: -1, dec: cfg.dec, env: env}
	c, err := parse(src, cfg.dec)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			cfg.log.Debug("formula did not compile",
				slog.String("source", src),
				slog.Int("pos", se.Offset),
				slog.Int("len", se.Len),
				slog.String("msg", se.Msg),
			)
		}
		return f, err
	}
	f.code, f.depth, f.names = c.code, c.depth, c.names
	return f, nil
}

// Source returns the text the formula was compiled from.
func (f *Formula) Source() string {
	return f.src
}

// Valid reports whether the formula compiled.
func (f *Formula) Valid() bool {
	return f.code != nil
}

// Depth returns the estimated operand stack depth needed to evaluate the
// formula, or -1 if it did not compile.
func (f *Formula) Depth() int {
	return f.depth
}

// PreferDecimal reports whether the formula computes non-integers as Decimal.
func (f *Formula) PreferDecimal() bool {
	return f.dec
}

// Names returns the sorted variable names the formula reads, assigns, or
// deletes. Function names are not included.
func (f *Formula) Names() []string {
	return append(([]string)(nil), f.names...)
}

// Disassemble returns the formula's instructions, one per line.
func (f *Formula) Disassemble() string {
	var b strings.Builder
	for _, in := range f.code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Formula) String() string {
	return f.src
}
