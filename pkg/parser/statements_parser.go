package parser

import (
	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/token"
)

// declaration is the recovery point: a failed production is dropped and the
// parser resynchronizes at the next statement boundary.
func (p *Parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)
	if p.match(token.Var) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(token.Equal) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarStatement(name, initializer), nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStatement(statements), nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(condition, thenBranch, elseBranch), nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(condition, body), nil
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value), nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}

// block parses declarations up to the closing brace. Inner declarations
// recover on their own, so only a missing '}' fails the block.
func (p *Parser) block() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}
