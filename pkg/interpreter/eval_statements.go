package interpreter

import (
	"fmt"
	"log/slog"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Stmt, scope runtime.ScopeID) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, scope)
		return err
	case *ast.PrintStatement:
		return i.executePrint(n, scope)
	case *ast.VarStatement:
		return i.executeVar(n, scope)
	case *ast.BlockStatement:
		return i.executeBlock(n.Statements, i.env.Push(scope))
	case *ast.IfStatement:
		return i.executeIf(n, scope)
	case *ast.WhileStatement:
		return i.executeWhile(n, scope)
	case nil:
		return fmt.Errorf("interpreter: nil statement")
	default:
		return fmt.Errorf("interpreter: unsupported statement type %s", n.NodeType())
	}
}

func (i *Interpreter) executePrint(n *ast.PrintStatement, scope runtime.ScopeID) error {
	value, err := i.evaluateExpression(n.Expression, scope)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.out, runtime.Stringify(value)); err != nil {
		return fmt.Errorf("interpreter: print: %w", err)
	}
	return nil
}

func (i *Interpreter) executeVar(n *ast.VarStatement, scope runtime.ScopeID) error {
	var value runtime.Value = runtime.NilValue{}
	if n.Initializer != nil {
		v, err := i.evaluateExpression(n.Initializer, scope)
		if err != nil {
			return err
		}
		value = v
	}
	i.env.Define(scope, n.Name.Lexeme, value)
	return nil
}

// executeBlock runs statements in block, a scope freshly pushed by the
// caller, and releases it however the body exits.
func (i *Interpreter) executeBlock(statements []ast.Stmt, block runtime.ScopeID) error {
	i.logger.Debug("push scope", slog.Int("scope", int(block)), slog.Int("depth", i.env.Depth(block)))
	defer func() {
		i.env.Pop(block)
		i.logger.Debug("pop scope", slog.Int("scope", int(block)), slog.Int("live", i.env.Live()))
	}()
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, block); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeIf(n *ast.IfStatement, scope runtime.ScopeID) error {
	cond, err := i.evaluateExpression(n.Condition, scope)
	if err != nil {
		return err
	}
	if runtime.IsTruthy(cond) {
		return i.executeStatement(n.Then, scope)
	}
	if n.Else != nil {
		return i.executeStatement(n.Else, scope)
	}
	return nil
}

func (i *Interpreter) executeWhile(n *ast.WhileStatement, scope runtime.ScopeID) error {
	for {
		cond, err := i.evaluateExpression(n.Condition, scope)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}
		if err := i.executeStatement(n.Body, scope); err != nil {
			return err
		}
	}
}
