// Package diagnostics collects the syntax and runtime errors reported while a
// program is scanned, parsed, and evaluated.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/xuorig/klox/pkg/token"
)

// Phase identifies which stage of the pipeline produced a diagnostic.
type Phase int

const (
	PhaseSyntax Phase = iota
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseSyntax:
		return "syntax"
	case PhaseRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Diagnostic is a single reported error.
type Diagnostic struct {
	Phase   Phase
	Line    int
	Where   string // " at end", " at 'x'", or empty for lexical errors
	Message string
}

func (d Diagnostic) String() string {
	if d.Phase == PhaseRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[Line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Collector is the sink shared by the lexer, parser, and interpreter. Every
// report is recorded and, when a writer is attached, written out immediately.
type Collector struct {
	w               io.Writer
	entries         []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

// New returns a collector that echoes reports to w. w may be nil.
func New(w io.Writer) *Collector {
	return &Collector{w: w}
}

// Error reports a syntax-time error that has only a line number.
func (c *Collector) Error(line int, message string) {
	c.report(Diagnostic{Phase: PhaseSyntax, Line: line, Message: message})
}

// ErrorAt reports a syntax error located at tok.
func (c *Collector) ErrorAt(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = " at end"
	}
	c.report(Diagnostic{Phase: PhaseSyntax, Line: tok.Line, Where: where, Message: message})
}

// RuntimeError reports an evaluation failure raised at tok.
func (c *Collector) RuntimeError(tok token.Token, message string) {
	c.report(Diagnostic{Phase: PhaseRuntime, Line: tok.Line, Message: message})
}

func (c *Collector) report(d Diagnostic) {
	if d.Phase == PhaseRuntime {
		c.hadRuntimeError = true
	} else {
		c.hadError = true
	}
	c.entries = append(c.entries, d)
	if c.w != nil {
		fmt.Fprintln(c.w, d.String())
	}
}

// HadError reports whether any lexical or syntax error was recorded.
func (c *Collector) HadError() bool { return c.hadError }

// HadRuntimeError reports whether a runtime error was recorded.
func (c *Collector) HadRuntimeError() bool { return c.hadRuntimeError }

// Diagnostics returns the recorded reports in order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.entries))
	copy(out, c.entries)
	return out
}

// Messages renders every recorded report.
func (c *Collector) Messages() []string {
	out := make([]string, 0, len(c.entries))
	for _, d := range c.entries {
		out = append(out, d.String())
	}
	return out
}

// Reset clears both flags and the recorded reports. The REPL calls it
// between input lines.
func (c *Collector) Reset() {
	c.entries = nil
	c.hadError = false
	c.hadRuntimeError = false
}
