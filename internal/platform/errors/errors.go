// Package errors provides a structured error type with wrapping, metadata,
// and a user-facing / internal split for API responses
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across services
// Values are stable for wire compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for rate limiting
	ErrorCodeTooManyRequests

	// ErrorCodeUnauthorized is for auth failures
	ErrorCodeUnauthorized

	// ErrorCodeForbidden is for access control failures
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for validation failures (input data)
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON parsing/validation errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB is for general database errors
	ErrorCodeDB

	// ErrorCodeAccountCreationDenied is for registrations rejected by policy
	ErrorCodeAccountCreationDenied

	// ErrorCodeIncompleteRegistration is for register sessions missing data
	ErrorCodeIncompleteRegistration
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON, ErrorCodeAccountCreationDenied, ErrorCodeIncompleteRegistration:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Describe returns the generic description of a code. This is the only text
// an internal error ever exposes on the wire; full detail stays in the logs.
func Describe(c ErrorCode) string {
	switch c {
	case ErrorCodePanic:
		return "An unexpected error occurred"
	case ErrorCodeUnavailable:
		return "Service temporarily unavailable"
	case ErrorCodeTooManyRequests:
		return "Too many requests"
	case ErrorCodeUnauthorized:
		return "Authentication required"
	case ErrorCodeForbidden:
		return "Access denied"
	case ErrorCodeInvalidArgument:
		return "Invalid argument"
	case ErrorCodeValidation:
		return "Validation failed"
	case ErrorCodeJSON:
		return "Malformed request body"
	case ErrorCodeNotFound:
		return "Not found"
	case ErrorCodeDuplicateKey:
		return "Already exists"
	case ErrorCodeDB:
		return "Storage error"
	case ErrorCodeAccountCreationDenied:
		return "Account creation is not allowed"
	case ErrorCodeIncompleteRegistration:
		return "The registration process is not complete"
	default:
		return "An unknown error occurred"
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// userFacing marks errors whose details (and i18n key) are safe to display
type Error struct {
	orig       error
	msg        string
	code       ErrorCode
	field      string
	userFacing bool
	i18nKey    string
	i18nData   map[string]string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code     ErrorCode         `json:"code"`
	Message  string            `json:"message"`
	Field    string            `json:"field,omitempty"`
	I18nKey  string            `json:"i18n,omitempty"`
	I18nData map[string]string `json:"i18n_data,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// UserFacing reports whether the details are safe to display
func (e *Error) UserFacing() bool { return e.userFacing }

// I18nKey returns the translation key attached to a user-facing error
func (e *Error) I18nKey() string { return e.i18nKey }

// I18nData returns the replacement values for the i18n key
func (e *Error) I18nData() map[string]string { return e.i18nData }

// ToWire converts an *Error to a Wire payload. Internal errors only expose
// the code description; user-facing errors expose their full detail.
func (e *Error) ToWire() Wire {
	if e.userFacing {
		key := e.i18nKey
		if key == "" {
			key = fmt.Sprintf("err.%d", e.code)
		}
		return Wire{Code: e.code, Message: e.msg, Field: e.field, I18nKey: key, I18nData: e.i18nData}
	}
	return Wire{Code: e.code, Message: Describe(e.code), I18nKey: fmt.Sprintf("err.%d", e.code)}
}

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: Describe(ErrorCodeUnknown)}
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// UserFacing returns an *Error whose details, i18n key, and i18n data are
// safe to surface to the end user (a 4xx-style policy outcome)
func UserFacing(code ErrorCode, details, i18nKey string, i18nData map[string]string) error {
	return &Error{code: code, msg: details, userFacing: true, i18nKey: i18nKey, i18nData: i18nData}
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// DBf returns a general database error
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// JSONErrf returns a JSON parse error; parse messages are safe to display
func JSONErrf(format string, a ...any) error {
	return &Error{code: ErrorCodeJSON, msg: fmt.Sprintf(format, a...), userFacing: true}
}

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Validationf returns a validation error; validation messages are safe to display
func Validationf(format string, a ...any) error {
	return &Error{code: ErrorCodeValidation, msg: fmt.Sprintf(format, a...), userFacing: true}
}
