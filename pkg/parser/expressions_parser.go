package parser

import (
	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/token"
)

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := expr.(*ast.Variable); ok {
		return ast.NewAssign(variable.Name, value), nil
	}
	// Reported without unwinding; the left-hand side stands in for the
	// assignment.
	p.errorAt(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.Expr, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(operand func() (ast.Expr, error), kind token.Type) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(kind) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() (ast.Expr, error), operators ...token.Type) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false), nil
	case p.match(token.True):
		return ast.NewLiteral(true), nil
	case p.match(token.Nil):
		return ast.NewLiteral(nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous()), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr), nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}
