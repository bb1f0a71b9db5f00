package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestRun(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		stdin string
		out   string
		code  int
	}{
		{"args", []string{"1+2", "x = 3", "x*2"}, "", "3\n3\n6\n", 0},
		{"given", []string{"-given", "x=2", "-given", "y = x+1", "x**10 + y"}, "", "1027\n", 0},
		{"decimal", []string{"-decimal", "1/3"}, "", "0.3333333333333333333333333333\n", 0},
		{"double", []string{"1/4", "2**-1"}, "", "0.25\n0.5\n", 0},
		{"echo", []string{"-echo", "x+1"}, "", "load x\npush Integer(1)\nadd\n1\n", 0},
		{"stdin", nil, "1\n\n  2*3  \nx = 4\nx!\n", "1\n6\n4\n24\n", 0},
		{"stdin-dash", []string{"-in", "-", "y"}, "y = 5\n", "5\n5\n", 0},
		{"syntax", []string{"1", "2 + $", "3"}, "", "1\n3\n", 1},
		{"eval-error", []string{"5 % 0"}, "", "", 1},
		{"bad-given", []string{"-given", "x", "1"}, "", "", 2},
		{"bad-given-value", []string{"-given", "x=(", "1"}, "", "", 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out, errs bytes.Buffer
			code := run(c.args, strings.NewReader(c.stdin), &out, &errs)
			if code != c.code {
				t.Errorf("want exit code %d, got %d; stderr:\n%s", c.code, code, errs.String())
			}
			if out.String() != c.out {
				t.Errorf("wrong output:\nwant %q\ngot  %q", c.out, out.String())
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(name, []byte("a = 2\na kilo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errs bytes.Buffer
	if code := run([]string{"-in", name, "a"}, strings.NewReader(""), &out, &errs); code != 0 {
		t.Fatalf("exit code %d; stderr:\n%s", code, errs.String())
	}
	if want := "2\n2000\n2\n"; out.String() != want {
		t.Errorf("wrong output:\nwant %q\ngot  %q", want, out.String())
	}
}

func TestRunDatabase(t *testing.T) {
	db := "sqlite:" + filepath.Join(t.TempDir(), "vars.db")
	steps := []struct {
		args []string
		out  string
	}{
		{[]string{"-db", db, "a = 4", "b = 0,5"}, "4\n0.5\n"},
		{[]string{"-db", db, "a + b"}, "4.5\n"},
		{[]string{"-db", db, "-decimal", "#a * b"}, "2\n"},
		{[]string{"-db", db, "a"}, "empty\n"},
	}
	for _, s := range steps {
		var out, errs bytes.Buffer
		if code := run(s.args, strings.NewReader(""), &out, &errs); code != 0 {
			t.Fatalf("%q: exit code %d; stderr:\n%s", s.args, code, errs.String())
		}
		if out.String() != s.out {
			t.Errorf("%q: want %q, got %q", s.args, s.out, out.String())
		}
	}
}

func TestSyntaxDiagnostic(t *testing.T) {
	var out, errs bytes.Buffer
	run([]string{"2 + $"}, strings.NewReader(""), &out, &errs)
	want := "2 + $\n    ^ unexpected '$'\n"
	if errs.String() != want {
		t.Errorf("wrong diagnostic:\nwant %q\ngot  %q", want, errs.String())
	}
}

func TestCaret(t *testing.T) {
	cases := []struct {
		src  string
		err  formula.SyntaxError
		want string
	}{
		{"2+", formula.SyntaxError{Offset: 2, Msg: "unexpected end of formula"}, "2+\n  ^ unexpected end of formula"},
		{"π + 1e", formula.SyntaxError{Offset: 5, Len: 2, Msg: "missing exponent digits"}, "π + 1e\n    ^^ missing exponent digits"},
	}
	for _, c := range cases {
		if got := caret(c.src, &c.err); got != c.want {
			t.Errorf("%q: want\n%s\ngot\n%s", c.src, c.want, got)
		}
	}
}

func TestCommands(t *testing.T) {
	var out, errs bytes.Buffer
	vars := formula.NewVars(nil).Set("x", 1).Set("y", 0.5)
	c := calc{
		env:    vars,
		names:  func() ([]string, error) { return vars.Names(), nil },
		stdout: &out,
		stderr: &errs,
	}
	if c.command(":vars") {
		t.Error(":vars exits")
	}
	if want := "x = 1\ny = 0.5\n"; out.String() != want {
		t.Errorf(":vars printed %q, want %q", out.String(), want)
	}
	if !c.command(":quit") {
		t.Error(":quit does not exit")
	}
}
