package interpreter

import (
	"errors"
	"io"
	"log/slog"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/diagnostics"
	"github.com/xuorig/klox/pkg/runtime"
)

// Interpreter evaluates statements against a global scope that persists
// across calls, so successive REPL lines share their variables.
type Interpreter struct {
	out    io.Writer
	env    *runtime.Environment
	logger *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger routes scope and statement tracing to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New returns an interpreter that writes print output to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	i := &Interpreter{
		out:    out,
		env:    runtime.NewEnvironment(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Environment exposes the scope arena.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Interpret runs stmts in order. The first runtime error stops the run and is
// reported to diags exactly once; it is also returned.
func (i *Interpreter) Interpret(stmts []ast.Stmt, diags *diagnostics.Collector) error {
	err := i.Execute(stmts)
	if err == nil {
		return nil
	}
	var rtErr *runtime.RuntimeError
	if diags != nil && errors.As(err, &rtErr) {
		diags.RuntimeError(rtErr.Token, rtErr.Message)
	}
	return err
}

// Execute runs stmts in the global scope and returns the first error.
func (i *Interpreter) Execute(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := i.executeStatement(stmt, i.env.Global()); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression in the global scope.
func (i *Interpreter) Evaluate(expr ast.Expr) (runtime.Value, error) {
	return i.evaluateExpression(expr, i.env.Global())
}
