package interpreter

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/diagnostics"
	"github.com/xuorig/klox/pkg/lexer"
	"github.com/xuorig/klox/pkg/parser"
	"github.com/xuorig/klox/pkg/runtime"
)

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	diags := diagnostics.New(nil)
	stmts := parser.Parse(lexer.Scan(source, diags), diags)
	if diags.HadError() {
		t.Fatalf("parse %q: %v", source, diags.Messages())
	}
	return stmts
}

// runSource interprets source on a fresh interpreter and returns the printed
// lines plus the collector.
func runSource(t *testing.T, source string) ([]string, *diagnostics.Collector) {
	t.Helper()
	var out bytes.Buffer
	diags := diagnostics.New(nil)
	interp := New(&out)
	_ = interp.Interpret(mustParse(t, source), diags)
	return outputLines(out.String()), diags
}

func outputLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func expectOutput(t *testing.T, source string, want ...string) {
	t.Helper()
	got, diags := runSource(t, source)
	if diags.HadRuntimeError() {
		t.Fatalf("%q: unexpected runtime error %v", source, diags.Messages())
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%q printed %q, want %q", source, got, want)
	}
}

func expectRuntimeError(t *testing.T, source string, wantMessage string, wantOutput ...string) {
	t.Helper()
	got, diags := runSource(t, source)
	if !diags.HadRuntimeError() {
		t.Fatalf("%q: expected runtime error, printed %q", source, got)
	}
	if diags.HadError() {
		t.Fatalf("%q: runtime error must not set the syntax flag", source)
	}
	messages := diags.Messages()
	if len(messages) != 1 || messages[0] != wantMessage {
		t.Fatalf("%q: messages = %q, want [%q]", source, messages, wantMessage)
	}
	if !reflect.DeepEqual(got, wantOutput) {
		t.Fatalf("%q printed %q, want %q", source, got, wantOutput)
	}
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, "print 1 + 2 * 3;", "7")
	expectOutput(t, "print (1 + 2) * 3;", "9")
	expectOutput(t, "print 10 - 4 - 3;", "3")
	expectOutput(t, "print 6.0 / 2.0;", "3")
	expectOutput(t, "print 7 / 2;", "3.5")
	expectOutput(t, "print -2.5;", "-2.5")
	expectOutput(t, "print 1 / 0;", "Infinity")
	expectOutput(t, "print -1 / 0;", "-Infinity")
	expectOutput(t, "print 0 / 0;", "NaN")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, "foobar")
	expectOutput(t, `var s = "a"; s = s + "b"; print s;`, "ab")
}

func TestComparisonAndEquality(t *testing.T) {
	expectOutput(t, "print 1 < 2; print 2 <= 2; print 3 > 4; print 4 >= 5;", "true", "true", "false", "false")
	expectOutput(t, `print 1 == "1"; print nil == nil; print nil == false; print "a" == "a"; print 1 != 2;`,
		"false", "true", "false", "true", "true")
	expectOutput(t, "print 0 / 0 == 0 / 0;", "false")
}

func TestTruthiness(t *testing.T) {
	expectOutput(t, `print !nil; print !false; print !0; print !""; print !!"x";`,
		"true", "true", "false", "false", "true")
	expectOutput(t, `if (0) print "zero is truthy"; else print "no";`, "zero is truthy")
	expectOutput(t, `if (nil) print "yes"; else print "nil is falsy";`, "nil is falsy")
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	expectOutput(t, `var a = "unset"; false and (a = "set"); print a;`, "unset")
	expectOutput(t, `var a = "unset"; true or (a = "set"); print a;`, "unset")
	expectOutput(t, `var a = "unset"; true and (a = "set"); print a;`, "set")
	expectOutput(t, `print nil or "default"; print 1 and 2; print false and 1; print nil or false;`,
		"default", "2", "false", "false")
}

func TestBlockScoping(t *testing.T) {
	expectOutput(t, "var a = 1; { var a = 2; print a; } print a;", "2", "1")
	expectOutput(t, "var a = 1; { a = 2; } print a;", "2")
	expectOutput(t, `
var a = "global a";
var b = "global b";
{
  var a = "outer a";
  {
    var b = "inner b";
    print a;
    print b;
  }
  print b;
}
print a;
`, "outer a", "inner b", "global b", "global a")
}

func TestRedeclarationInSameScopeOverwrites(t *testing.T) {
	expectOutput(t, "var a = 1; var a = 2; print a;", "2")
	expectOutput(t, "var a; print a;", "nil")
}

func TestControlFlow(t *testing.T) {
	expectOutput(t, `if (1 < 2) print "then"; else print "else";`, "then")
	expectOutput(t, `if (1 > 2) print "then"; else print "else";`, "else")
	expectOutput(t, "var i = 0; while (i < 3) { print i; i = i + 1; }", "0", "1", "2")
	expectOutput(t, "while (false) print 1;")
}

func TestRuntimeErrors(t *testing.T) {
	expectRuntimeError(t, `print "a" + 1;`, "Operands must be two numbers or two strings.\n[line 1]")
	expectRuntimeError(t, `print -"x";`, "Operand must be a number.\n[line 1]")
	expectRuntimeError(t, `print 1 < "2";`, "Operand must be numbers.\n[line 1]")
	expectRuntimeError(t, "print nil * 2;", "Operand must be numbers.\n[line 1]")
	expectRuntimeError(t, "print x;", "Undefined variable 'x'.\n[line 1]")
	expectRuntimeError(t, "\ny = 1;", "Undefined variable 'y'.\n[line 2]")
}

func TestFirstRuntimeErrorStopsTheRun(t *testing.T) {
	expectRuntimeError(t, "print 1;\nprint -\"x\";\nprint 2;", "Operand must be a number.\n[line 2]", "1")
}

func TestScopeRestoredAfterRuntimeError(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out)

	err := interp.Execute(mustParse(t, `var a = "outer"; { var a = "inner"; { print missing; } }`))
	var rtErr *runtime.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("Execute error = %v, want *runtime.RuntimeError", err)
	}
	if live := interp.Environment().Live(); live != 1 {
		t.Fatalf("Live() = %d after error, want only the global scope", live)
	}

	if err := interp.Execute(mustParse(t, "print a;")); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := out.String(); got != "outer\n" {
		t.Fatalf("output = %q, want %q", got, "outer\n")
	}
}

func TestGlobalsPersistAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out)
	if err := interp.Execute(mustParse(t, "var count = 1;")); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if err := interp.Execute(mustParse(t, "count = count + 1; print count;")); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got := out.String(); got != "2\n" {
		t.Fatalf("output = %q, want %q", got, "2\n")
	}
}

func TestEvaluate(t *testing.T) {
	diags := diagnostics.New(nil)
	expr, err := parser.New(lexer.Scan(`"n=" + "3"`, diags), diags).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression error: %v", err)
	}
	value, err := New(nil).Evaluate(expr)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if got := runtime.Stringify(value); got != "n=3" {
		t.Fatalf("Evaluate = %q, want %q", got, "n=3")
	}
}

func TestWithLoggerTracesScopes(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	interp := New(nil, WithLogger(logger))
	if err := interp.Execute(mustParse(t, "{ var x = 1; }")); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	text := logs.String()
	if !strings.Contains(text, "push scope") || !strings.Contains(text, "pop scope") {
		t.Fatalf("expected scope tracing, got %q", text)
	}
}
