package token

import "fmt"

// Type identifies the lexical category of a token.
type Type int

const (
	// Single-character punctuation.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var typeNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	For:          "FOR",
	Fun:          "FUN",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText renders the type by name so tokens serialize readably.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent classifies identifier text as a keyword or a plain identifier.
func LookupIdent(text string) Type {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return Identifier
}

// Token is a single lexical unit. Literal holds the decoded value for
// NUMBER (float64) and STRING (string) tokens and is nil otherwise.
type Token struct {
	Type    Type   `json:"type"`
	Lexeme  string `json:"lexeme"`
	Literal any    `json:"literal,omitempty"`
	Line    int    `json:"line"`
}

// New builds a token.
func New(kind Type, lexeme string, literal any, line int) Token {
	return Token{Type: kind, Lexeme: lexeme, Literal: literal, Line: line}
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
}
