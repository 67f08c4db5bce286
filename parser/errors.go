package parser

import "fmt"

// Kind names a class of parse error.
type Kind int

// Error kinds, per the grammar rules that can fail.
const (
	ExpectedPunct Kind = iota
	ExpectedNumber
	ExpectedIdentifier
	ExpectedInt
	ExpectedFunctionDefinition
	UndefinedVariable
	UndefinedFunction
)

func (k Kind) String() string {
	switch k {
	case ExpectedPunct:
		return "expected-reserved-punctuator"
	case ExpectedNumber:
		return "expected-number"
	case ExpectedIdentifier:
		return "expected-identifier"
	case ExpectedInt:
		return "expected-int"
	case ExpectedFunctionDefinition:
		return "expected-function-definition"
	case UndefinedVariable:
		return "undefined-variable"
	case UndefinedFunction:
		return "undefined-function"
	default:
		return "unknown"
	}
}

// Error is a parse failure: what was expected (or which name was
// unresolved), and where.
type Error struct {
	Kind Kind
	Pos  int
	Want string // expected punctuator literal, set only for ExpectedPunct
	Got  string // the token literal actually found, or the offending name
}

func (e *Error) Error() string {
	switch e.Kind {
	case UndefinedVariable, UndefinedFunction:
		return fmt.Sprintf("parse error at position %d: %s %q", e.Pos, e.Kind, e.Got)
	case ExpectedFunctionDefinition:
		return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Kind)
	default:
		if e.Want != "" {
			return fmt.Sprintf("parse error at position %d: %s %q, got %q", e.Pos, e.Kind, e.Want, e.Got)
		}
		return fmt.Sprintf("parse error at position %d: %s, got %q", e.Pos, e.Kind, e.Got)
	}
}
