package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned when an expression cannot be parsed.
	ErrSyntax = errors.New("invalid expression")

	// ErrUnboundVariable is returned when evaluation meets a variable that
	// has no value in the assignment.
	ErrUnboundVariable = errors.New("unbound variable")
)

// DomainKind classifies a mathematical illegality.
type DomainKind int

const (
	// DivisionByZero is a denominator within 1e-12 of zero.
	DivisionByZero DomainKind = iota + 1

	// NegativeSqrt is a square root of a negative number.
	NegativeSqrt

	// NonPositiveLog is a logarithm of zero or a negative number, or a
	// logarithm with an invalid base.
	NonPositiveLog

	// OutOfDomain is any other argument outside a function's domain, such
	// as asin(2) or a fractional power of a negative number.
	OutOfDomain

	// NonFinite is an overflow to infinity.
	NonFinite
)

// String returns a short tag for the kind.
func (k DomainKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case NegativeSqrt:
		return "sqrt of negative"
	case NonPositiveLog:
		return "log of non-positive"
	case OutOfDomain:
		return "outside function domain"
	case NonFinite:
		return "non-finite result"
	default:
		return "unknown domain issue"
	}
}

// DomainError reports a detected domain violation.
type DomainError struct {
	Kind   DomainKind
	Detail string
}

// Error implements error.
func (e *DomainError) Error() string {
	if e.Detail == "" {
		return "domain issue: " + e.Kind.String()
	}
	return fmt.Sprintf("domain issue: %s (%s)", e.Kind, e.Detail)
}

// AsDomainError returns the *DomainError in err's chain, if any.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func syntaxError(pos int, format string, args ...any) error {
	return fmt.Errorf("%w at %d: %s", ErrSyntax, pos, fmt.Sprintf(format, args...))
}
