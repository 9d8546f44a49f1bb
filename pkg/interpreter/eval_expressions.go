package interpreter

import (
	"fmt"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/runtime"
	"github.com/xuorig/klox/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, scope runtime.ScopeID) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		value, err := runtime.FromLiteral(n.Value)
		if err != nil {
			return nil, fmt.Errorf("interpreter: %w", err)
		}
		return value, nil
	case *ast.Grouping:
		return i.evaluateExpression(n.Expression, scope)
	case *ast.Unary:
		return i.evaluateUnary(n, scope)
	case *ast.Binary:
		return i.evaluateBinary(n, scope)
	case *ast.Logical:
		return i.evaluateLogical(n, scope)
	case *ast.Variable:
		return i.env.Get(scope, n.Name)
	case *ast.Assign:
		value, err := i.evaluateExpression(n.Value, scope)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(scope, n.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case nil:
		return nil, fmt.Errorf("interpreter: nil expression")
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression type %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateUnary(n *ast.Unary, scope runtime.ScopeID) (runtime.Value, error) {
	right, err := i.evaluateExpression(n.Right, scope)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Type {
	case token.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewRuntimeError(n.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	}
	return nil, runtime.NewRuntimeError(n.Operator, fmt.Sprintf("Unsupported unary operator '%s'.", n.Operator.Lexeme))
}

// evaluateBinary evaluates both operands left to right before checking types.
func (i *Interpreter) evaluateBinary(n *ast.Binary, scope runtime.ScopeID) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, scope)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Type {
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case token.Plus:
		return add(n.Operator, left, right)
	}

	l, r, err := numberOperands(n.Operator, left, right)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Type {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l / r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	}
	return nil, runtime.NewRuntimeError(n.Operator, fmt.Sprintf("Unsupported binary operator '%s'.", n.Operator.Lexeme))
}

func add(operator token.Token, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: l.Val + r.Val}, nil
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	}
	return nil, runtime.NewRuntimeError(operator, "Operands must be two numbers or two strings.")
}

func numberOperands(operator token.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtime.NewRuntimeError(operator, "Operand must be numbers.")
	}
	return l.Val, r.Val, nil
}

// evaluateLogical returns the operand that decided the result, not a bool.
func (i *Interpreter) evaluateLogical(n *ast.Logical, scope runtime.ScopeID) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, scope)
	if err != nil {
		return nil, err
	}
	if n.Operator.Type == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else if !runtime.IsTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(n.Right, scope)
}
