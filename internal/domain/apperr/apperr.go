// Package apperr defines the error taxonomy shared by every domain service.
// Transport code maps a Kind to a status code; anything that is not an
// *Error is treated as an unexpected failure.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

const (
	CodeValidation        = "validation_error"
	CodeInvalidPayload    = "invalid_payload"
	CodeInvalidIdentifier = "invalid_identifier"
	CodeInvalidEnum       = "invalid_enum"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidDateRange  = "invalid_date_range"
	CodeUnauthenticated   = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Is matches on Kind, and on Code when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Field: field, Message: message}
}

func Validationf(field, format string, args ...any) *Error {
	return Validation(field, fmt.Sprintf(format, args...))
}

func InvalidIdentifier(field string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidIdentifier, Field: field, Message: "must be a valid 24-character hex identifier"}
}

func InvalidEnum(field string, allowed []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeInvalidEnum,
		Field:   field,
		Message: "must be one of " + strings.Join(allowed, ", "),
		Details: map[string]any{"allowed": allowed},
	}
}

func InvalidDate(field string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidDate, Field: field, Message: "must be a valid date (YYYY-MM-DD or RFC3339)"}
}

func InvalidDateRange(startField, endField string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidDateRange, Field: startField, Message: "must be on or before " + endField}
}

func InvalidPayload(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidPayload, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: CodeUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: entity + " not found"}
}

func Conflict(code, message string) *Error {
	if code == "" {
		code = CodeConflict
	}
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return 0
}
