package dapcore

import "fmt"

// Code identifies the class of failure a dapcore operation returns. The
// taxonomy is closed: callers switch on it rather than on error strings.
type Code int

const (
	// BadConstraint means the raw constraint expression failed to parse
	// or referenced a projection path the object model cannot match.
	BadConstraint Code = iota
	// BadSlice means a `[...]` slice group failed to parse or fell
	// outside the bounds of the dimension it applies to.
	BadSlice
	// UnsupportedType means an atomic or container type was requested
	// that the type registry does not know how to describe or encode.
	UnsupportedType
	// EncodingMismatch means the XDR encoder was asked to write a value
	// whose shape or element count disagreed with its declared type.
	EncodingMismatch
	// SchemaViolation means a Sequence row failed to match its declared
	// SequenceSchema field list.
	SchemaViolation
	// InternalInvariant means a tree invariant assumed by the object
	// model was violated (e.g. a Grid map not carrying a Dimension it
	// claims to describe). This should never happen against a tree built
	// through this package's constructors.
	InternalInvariant
)

func (c Code) String() string {
	switch c {
	case BadConstraint:
		return "BadConstraint"
	case BadSlice:
		return "BadSlice"
	case UnsupportedType:
		return "UnsupportedType"
	case EncodingMismatch:
		return "EncodingMismatch"
	case SchemaViolation:
		return "SchemaViolation"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Error is the single error type every dapcore operation returns. It
// carries a closed taxonomy Code plus an optional wrapped cause, so
// transport layers can funnel it to a status code with one switch and
// still get %w-wrapped context for logs.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError builds an *Error with no wrapped cause.
func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapError builds an *Error wrapping cause.
func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
