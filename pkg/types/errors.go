package types

import (
	"fmt"
	"strings"
)

// ErrorCode represents a codec error class.
type ErrorCode string

// Error codes. Every one of them aborts the running Encode or Decode call.
const (
	// E01xx: tree shape errors
	ErrCodeMalformedTree        ErrorCode = "E0101"
	ErrCodeMissingRequiredChild ErrorCode = "E0102"

	// E02xx: metadata errors
	ErrCodeUnresolvedType   ErrorCode = "E0201"
	ErrCodeUnresolvedMember ErrorCode = "E0202"

	// E03xx: binding errors
	ErrCodeScopeViolation ErrorCode = "E0301"
)

var codeNames = map[ErrorCode]string{
	ErrCodeMalformedTree:        "malformed tree",
	ErrCodeMissingRequiredChild: "missing required child",
	ErrCodeUnresolvedType:       "unresolved type",
	ErrCodeUnresolvedMember:     "unresolved member",
	ErrCodeScopeViolation:       "scope violation",
}

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrMalformedTree        = &Error{Code: ErrCodeMalformedTree}
	ErrMissingRequiredChild = &Error{Code: ErrCodeMissingRequiredChild}
	ErrUnresolvedType       = &Error{Code: ErrCodeUnresolvedType}
	ErrUnresolvedMember     = &Error{Code: ErrCodeUnresolvedMember}
	ErrScopeViolation       = &Error{Code: ErrCodeScopeViolation}
)

// Error represents a structured codec error.
type Error struct {
	Code    ErrorCode
	Message string
	// Path is the tag path from the root to the failing node, e.g.
	// "lambda/block/call".
	Path []string
	// Name is the attempted type name, member signature or binding name.
	Name string
	Err  error
}

// NewError creates a new codec error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new codec error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if n, ok := codeNames[e.Code]; ok {
		b.WriteString(" ")
		b.WriteString(n)
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a codec error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithPath records where in the tree the error happened. The first call wins
// so the innermost location is kept.
func (e *Error) WithPath(path []string) *Error {
	if e.Path == nil && len(path) > 0 {
		e.Path = append([]string(nil), path...)
	}
	return e
}

// WithName adds the attempted name or signature to the error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
