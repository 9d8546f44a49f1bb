package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/diagnostics"
	"github.com/xuorig/klox/pkg/interpreter"
	"github.com/xuorig/klox/pkg/lexer"
	"github.com/xuorig/klox/pkg/parser"
	"github.com/xuorig/klox/pkg/runtime"
)

// Process exit statuses.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65 // syntax errors
	ExitNoInput  = 66 // unreadable source
	ExitSoftware = 70 // runtime error
	ExitIOErr    = 74 // output could not be written
)

// Runner owns one interpreter and one diagnostics collector. A file run uses
// a Runner once; the REPL keeps one alive and calls Reset between lines so
// globals survive while the error flags do not.
type Runner struct {
	Interp  *interpreter.Interpreter
	Diags   *diagnostics.Collector
	errOut  io.Writer
	failure error
	logger  *slog.Logger
}

// NewRunner writes program output to out and diagnostics to errOut.
func NewRunner(out, errOut io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		Interp: interpreter.New(out, interpreter.WithLogger(logger)),
		Diags:  diagnostics.New(errOut),
		errOut: errOut,
		logger: logger,
	}
}

// Parse scans and parses source without evaluating it. The returned error
// wraps parser.ErrParse when any lexical or syntax error was reported.
func (r *Runner) Parse(name, source string) ([]ast.Stmt, error) {
	tokens := lexer.Scan(source, r.Diags)
	r.logger.Debug("scanned", slog.String("source", name), slog.Int("tokens", len(tokens)))
	stmts := parser.Parse(tokens, r.Diags)
	r.logger.Debug("parsed", slog.String("source", name), slog.Int("statements", len(stmts)))
	if r.Diags.HadError() {
		return stmts, fmt.Errorf("%s: %w", name, parser.ErrParse)
	}
	return stmts, nil
}

// Run executes source. Nothing is evaluated if scanning or parsing reported
// an error. Runtime errors are reported to Diags and returned. Any other
// evaluation failure is written to the error stream, recorded for ExitCode,
// and returned.
func (r *Runner) Run(name, source string) error {
	stmts, err := r.Parse(name, source)
	if err != nil {
		return err
	}
	if err := r.Interp.Interpret(stmts, r.Diags); err != nil {
		r.logger.Debug("run failed", slog.String("source", name), slog.Any("error", err))
		var rtErr *runtime.RuntimeError
		if !errors.As(err, &rtErr) {
			r.failure = err
			if r.errOut != nil {
				fmt.Fprintf(r.errOut, "klox: %s: %v\n", name, err)
			}
		}
		return err
	}
	r.logger.Debug("run finished", slog.String("source", name))
	return nil
}

// Reset clears the diagnostics flags and any recorded failure. The
// interpreter state is kept.
func (r *Runner) Reset() {
	r.Diags.Reset()
	r.failure = nil
}

// Failed reports whether the last run stopped on an error that is neither a
// syntax nor a runtime error.
func (r *Runner) Failed() bool { return r.failure != nil }

// ExitCode maps the collector flags and any recorded failure to a process
// status.
func (r *Runner) ExitCode() int {
	switch {
	case r.failure != nil:
		return ExitIOErr
	case r.Diags.HadError():
		return ExitDataErr
	case r.Diags.HadRuntimeError():
		return ExitSoftware
	default:
		return ExitOK
	}
}
