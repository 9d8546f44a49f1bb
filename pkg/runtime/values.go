package runtime

import (
	"fmt"

	"github.com/xuorig/klox/pkg/token"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the closed set of values a program can compute.
type Value interface {
	Kind() Kind
	isValue()
}

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }
func (NilValue) isValue()   {}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()   {}

type NumberValue struct {
	Val float64
}

func (NumberValue) Kind() Kind { return KindNumber }
func (NumberValue) isValue()   {}

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }
func (StringValue) isValue()   {}

// FromLiteral converts a decoded token literal into a runtime value.
func FromLiteral(v any) (Value, error) {
	switch lit := v.(type) {
	case nil:
		return NilValue{}, nil
	case bool:
		return BoolValue{Val: lit}, nil
	case float64:
		return NumberValue{Val: lit}, nil
	case string:
		return StringValue{Val: lit}, nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}

// IsTruthy treats nil and false as falsy and everything else as truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal compares values structurally without coercion. Numbers follow IEEE
// comparison, so NaN is never equal to itself.
func Equal(a, b Value) bool {
	switch left := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		right, ok := b.(BoolValue)
		return ok && left.Val == right.Val
	case NumberValue:
		right, ok := b.(NumberValue)
		return ok && left.Val == right.Val
	case StringValue:
		right, ok := b.(StringValue)
		return ok && left.Val == right.Val
	default:
		return false
	}
}

// Stringify renders a value the way `print` shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case NumberValue:
		return token.FormatNumber(val.Val)
	case StringValue:
		return val.Val
	default:
		return fmt.Sprintf("%v", v)
	}
}
