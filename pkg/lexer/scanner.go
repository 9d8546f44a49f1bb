package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/xuorig/klox/pkg/diagnostics"
	"github.com/xuorig/klox/pkg/token"
)

// Scanner turns source text into tokens with a single left-to-right cursor.
type Scanner struct {
	source  string
	start   int // byte offset of the token being scanned
	current int // byte offset of the next unread rune
	line    int
	tokens  []token.Token
	diags   *diagnostics.Collector
}

// NewScanner creates a scanner over source. Lexical errors go to diags.
func NewScanner(source string, diags *diagnostics.Collector) *Scanner {
	if diags == nil {
		diags = diagnostics.New(nil)
	}
	return &Scanner{source: source, line: 1, diags: diags}
}

// Scan tokenizes source in one call.
func Scan(source string, diags *diagnostics.Collector) []token.Token {
	return NewScanner(source, diags).ScanTokens()
}

// ScanTokens consumes the whole source. Scanning never stops early: bad
// characters are reported and skipped. The result always ends with EOF.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.choose('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.choose('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.choose('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.choose('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
			return
		}
		s.addToken(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(c):
			s.readNumber()
		case isAlpha(c):
			s.readIdentifier()
		default:
			s.diags.Error(s.line, "Unexpected character.")
		}
	}
}

func (s *Scanner) readString() {
	startLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.diags.Error(startLine, "Unterminated string.")
		return
	}
	s.advance() // closing quote

	value := s.source[s.start+1 : s.current-1]
	s.addLiteral(token.String, value)
}

func (s *Scanner) readNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// The lexeme is always well formed; out-of-range literals decode to ±Inf.
	value, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)
	s.addLiteral(token.Number, value)
}

func (s *Scanner) readIdentifier() {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	s.addToken(token.LookupIdent(s.source[s.start:s.current]))
}

func (s *Scanner) choose(next rune, matched, single token.Type) token.Type {
	if s.match(next) {
		return matched
	}
	return single
}

func (s *Scanner) addToken(kind token.Type) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Type, literal any) {
	lexeme := s.source[s.start:s.current]
	s.tokens = append(s.tokens, token.New(kind, lexeme, literal, s.line))
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += size
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(s.source[s.current:])
	if r != expected {
		return false
	}
	s.current += size
	return true
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.source[s.current:])
	if s.current+size >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current+size:])
	return r
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}
