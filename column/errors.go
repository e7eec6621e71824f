package column

import "fmt"

// Error taxonomy for the column core. Each error carries a Type drawn from a
// closed set so callers can match with errors.Is against the sentinels below
// without string comparison.
const (
	TypeInvalidState = "InvalidState"
	TypeTypeMismatch = "TypeMismatch"
	TypeSizeMismatch = "SizeMismatch"
	TypeNullIndex    = "NullIndexError"
)

// Sentinels for use with errors.Is.
var (
	ErrInvalidState = &Error{Type: TypeInvalidState}
	ErrTypeMismatch = &Error{Type: TypeTypeMismatch}
	ErrSizeMismatch = &Error{Type: TypeSizeMismatch}
	ErrNullIndex    = &Error{Type: TypeNullIndex}
)

// Error represents a failure in the column core.
type Error struct {
	Type    string // e.g. "TypeMismatch", "SizeMismatch"
	Message string
	Cause   error // underlying failure, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying failure for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is by matching any *Error target with the same Type.
// A target with an empty Type matches every *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == "" || t.Type == e.Type
}

func invalidStatef(format string, args ...any) *Error {
	return &Error{Type: TypeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func typeMismatchf(format string, args ...any) *Error {
	return &Error{Type: TypeTypeMismatch, Message: fmt.Sprintf(format, args...)}
}

func sizeMismatchf(format string, args ...any) *Error {
	return &Error{Type: TypeSizeMismatch, Message: fmt.Sprintf(format, args...)}
}
