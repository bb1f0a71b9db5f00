package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/store"
)

const historyFile = ".formula_history"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)
	var (
		inname, dbtarget, history, level string
		with                             [][2]string
		dec, echo                        bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	home, _ := os.UserHomeDir()
	fs := flag.NewFlagSet("formula", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&inname, "in", "", "input file, one formula per line (default stdin if no args given)")
	fs.Func("given", "name=value variable definition (any number of times)", addwith)
	fs.BoolVar(&dec, "decimal", env.Bool("FORMULA_DECIMAL"), "compute non-integers as decimals instead of doubles")
	fs.BoolVar(&echo, "echo", false, "print compiled code before each result")
	fs.StringVar(&dbtarget, "db", env.Str("FORMULA_DB"), "keep variables in a database: path, sqlite:path, or mysql://dsn")
	fs.StringVar(&history, "history", env.Str("FORMULA_HISTORY", filepath.Join(home, historyFile)), "interactive history file")
	fs.StringVar(&level, "log", env.Str("FORMULA_LOG", "warn"), "log level: debug, info, warn, or error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	slogger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(level)}))
	c := calc{
		stdout: stdout,
		stderr: stderr,
		dec:    dec,
		echo:   echo,
		log:    slogger,
	}
	vars := formula.NewVars(nil)
	c.env, c.names = vars, func() ([]string, error) { return vars.Names(), nil }
	if dbtarget != "" {
		s, err := store.Open(dbtarget, vars, slogger)
		if err != nil {
			logger.Print(err)
			return 1
		}
		defer s.Close()
		c.env, c.names = s, s.Names
	}
	for _, d := range with {
		r, err := formula.EvalString(d[1], c.env, formula.PreferDecimal(dec), formula.Logger(slogger))
		if err != nil {
			logger.Printf("setting %s: %v", d[0], err)
			return 1
		}
		if err := c.env.Assign(d[0], r.Host()); err != nil {
			logger.Printf("setting %s: %v", d[0], err)
			return 1
		}
	}

	in, err := infile(inname, fs.NArg() == 0, stdin)
	if err != nil {
		logger.Print(err)
		return 1
	}
	if in == os.Stdin && isTerminal(os.Stdin) {
		return c.repl(history)
	}
	ok := true
	if in != nil {
		if cl, isf := in.(io.Closer); isf && in != stdin {
			defer cl.Close()
		}
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			ok = c.eval(line) && ok
		}
		if err := sc.Err(); err != nil {
			logger.Print(err)
			return 1
		}
	}
	for _, arg := range fs.Args() {
		ok = c.eval(arg) && ok
	}
	if !ok {
		return 1
	}
	return 0
}

// calc evaluates formulas against a shared environment.
type calc struct {
	env    formula.Environment
	names  func() ([]string, error)
	stdout io.Writer
	stderr io.Writer
	dec    bool
	echo   bool
	log    *slog.Logger
}

// eval compiles and evaluates one formula, printing its result or errors.
func (c *calc) eval(src string) bool {
	f, err := formula.Compile(src, c.env, formula.PreferDecimal(c.dec), formula.Logger(c.log))
	if err != nil {
		var se *formula.SyntaxError
		if errors.As(err, &se) {
			fmt.Fprintln(c.stderr, caret(src, se))
		} else {
			fmt.Fprintln(c.stderr, err)
		}
		return false
	}
	if c.echo {
		fmt.Fprint(c.stdout, f.Disassemble())
	}
	r, err := f.Eval(nil)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s: %v\n", src, err)
		return false
	}
	fmt.Fprintln(c.stdout, r)
	return true
}

func (c *calc) repl(history string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(history)
			if err != nil {
				c.log.Warn("could not save history", slog.String("file", history), slog.Any("err", err))
				return
			}
			ln.WriteHistory(f)
			f.Close()
		}()
	}
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(c.stdout)
			return 0
		}
		if err != nil {
			c.log.Error("reading input", slog.Any("err", err))
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if c.command(line) {
				return 0
			}
			continue
		}
		c.eval(line)
	}
}

// command runs an interactive command and reports whether to exit.
func (c *calc) command(line string) bool {
	switch strings.ToLower(line) {
	case ":quit", ":q":
		return true
	case ":vars":
		names, err := c.names()
		if err != nil {
			fmt.Fprintln(c.stderr, err)
			return false
		}
		for _, name := range names {
			v, _ := c.env.Lookup(name)
			n, err := formula.Convert(v, c.dec)
			if err != nil {
				fmt.Fprintf(c.stdout, "%s = %v\n", name, v)
				continue
			}
			fmt.Fprintf(c.stdout, "%s = %v\n", name, n)
		}
	case ":help":
		fmt.Fprint(c.stdout, help)
	default:
		fmt.Fprintln(c.stdout, "unknown command. Type :help for help or :quit to exit.")
	}
	return false
}

const help = `Enter a formula to evaluate it, e.g. "x = 2 pi" or "max(x; 3)".
Operators: & | ^ << >> + - * / % \ ** // ~ ! # (delete after reading)
Commands:
  :vars   list variables
  :help   show this help
  :quit   exit
`

// caret renders a syntax error with a marker under the offending span.
func caret(src string, err *formula.SyntaxError) string {
	off := min(err.Offset, len(src))
	end := min(off+err.Len, len(src))
	n := max(utf8.RuneCountInString(src[off:end]), 1)
	return src + "\n" + strings.Repeat(" ", utf8.RuneCountInString(src[:off])) + strings.Repeat("^", n) + " " + err.Msg
}

func infile(inname string, std bool, stdin io.Reader) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return stdin, nil
	}
	return nil, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
