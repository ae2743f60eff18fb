package graphdb

import "fmt"

// ErrorKind discriminates the category of a failure, per spec: callers that
// need to branch on error category (rather than identity) can switch on
// Kind instead of comparing against every sentinel.
type ErrorKind int

const (
	// ErrorKindInvalidValue means an input failed validation: a bad
	// Identifier, or an id used where the spec disallows it (e.g. 0).
	ErrorKindInvalidValue ErrorKind = iota
	// ErrorKindNotFound means an addressed entity does not exist where
	// the operation requires it to.
	ErrorKindNotFound
	// ErrorKindUUIDTaken means an id allocation collided.
	ErrorKindUUIDTaken
	// ErrorKindOutOfRange means an id counter or offset overflowed.
	ErrorKindOutOfRange
	// ErrorKindBackendError wraps an underlying backend I/O or
	// corruption error (disk backend only).
	ErrorKindBackendError
	// ErrorKindSerializationError means a persisted record could not be
	// decoded (disk backend only).
	ErrorKindSerializationError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidValue:
		return "invalid_value"
	case ErrorKindNotFound:
		return "not_found"
	case ErrorKindUUIDTaken:
		return "uuid_taken"
	case ErrorKindOutOfRange:
		return "out_of_range"
	case ErrorKindBackendError:
		return "backend_error"
	case ErrorKindSerializationError:
		return "serialization_error"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every failable call in this
// module. It carries a Kind for programmatic branching and an optional
// wrapped cause for diagnostics.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, graphdb.ErrNotFound) style comparisons against
// the sentinel values below: two *Error values match if their Kind matches,
// regardless of Message/Cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel errors for errors.Is comparisons. Only Kind participates in the
// comparison (see Error.Is), so these are stable identities to match
// against even though every call site constructs its own *Error with a
// specific Message.
var (
	ErrInvalidValue        = &Error{Kind: ErrorKindInvalidValue, Message: "invalid value"}
	ErrNotFound            = &Error{Kind: ErrorKindNotFound, Message: "not found"}
	ErrUUIDTaken           = &Error{Kind: ErrorKindUUIDTaken, Message: "id already taken"}
	ErrOutOfRange          = &Error{Kind: ErrorKindOutOfRange, Message: "out of range"}
	ErrBackendError        = &Error{Kind: ErrorKindBackendError, Message: "backend error"}
	ErrSerializationError  = &Error{Kind: ErrorKindSerializationError, Message: "serialization error"}
)
