package runtime

import (
	"fmt"

	"github.com/xuorig/klox/pkg/token"
)

// RuntimeError is raised during evaluation. Token locates the failure.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s [line %d]", e.Message, e.Token.Line)
}
