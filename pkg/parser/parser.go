package parser

import (
	"errors"
	"fmt"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/diagnostics"
	"github.com/xuorig/klox/pkg/token"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError is returned by a production that cannot continue. It has
// already been reported to the collector by the time it is returned.
type ParseError struct {
	Token   token.Token
	Message string
}

func (e *ParseError) Error() string {
	if e.Token.Type == token.EOF {
		return fmt.Sprintf("line %d at end: %s", e.Token.Line, e.Message)
	}
	return fmt.Sprintf("line %d at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Parser is a recursive-descent parser over a token slice that ends in EOF.
type Parser struct {
	tokens  []token.Token
	current int
	diags   *diagnostics.Collector
}

// New creates a parser. A missing trailing EOF token is supplied.
func New(tokens []token.Token, diags *diagnostics.Collector) *Parser {
	if diags == nil {
		diags = diagnostics.New(nil)
	}
	if n := len(tokens); n == 0 || tokens[n-1].Type != token.EOF {
		line := 1
		if n > 0 {
			line = tokens[n-1].Line
		}
		tokens = append(tokens[:n:n], token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, diags: diags}
}

// Parse parses a whole program. Statements that fail to parse are dropped
// after being reported; diags.HadError tells whether that happened.
func Parse(tokens []token.Token, diags *diagnostics.Collector) []ast.Stmt {
	return New(tokens, diags).Parse()
}

// Parse consumes declarations until EOF.
func (p *Parser) Parse() []ast.Stmt {
	statements := []ast.Stmt{}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ParseExpression parses exactly one expression followed by EOF.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.errorAt(p.peek(), "Expect end of expression.")
	}
	return expr, nil
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...token.Type) bool {
	for _, kind := range types {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Type, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) check(kind token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok token.Token, message string) *ParseError {
	p.diags.ErrorAt(tok, message)
	return &ParseError{Token: tok, Message: message}
}
