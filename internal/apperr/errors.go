// Package apperr defines the error kinds returned by the business handlers.
// Transports map kinds onto their own status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInsufficientStock
	KindSalaryNotSet
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindSalaryNotSet:
		return "salary_not_set"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// Codes that refine a kind. Callers may match them with errors.Is against
// the exported sentinels below.
const (
	CodeAlreadyCheckedIn     = "already_checked_in"
	CodeAlreadyCheckedOut    = "already_checked_out"
	CodeAttendanceExists     = "attendance_exists"
	CodeProductNotFound      = "product_not_found"
	CodeProductArchived      = "product_archived"
	CodeLeaveAlreadyReviewed = "leave_already_reviewed"
	CodeDuplicate            = "duplicate"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind, and on code when the target carries one.
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
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrSalaryNotSet      = &Error{Kind: KindSalaryNotSet}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}

	ErrAlreadyCheckedIn     = &Error{Kind: KindConflict, Code: CodeAlreadyCheckedIn}
	ErrAlreadyCheckedOut    = &Error{Kind: KindConflict, Code: CodeAlreadyCheckedOut}
	ErrProductNotFound      = &Error{Kind: KindNotFound, Code: CodeProductNotFound}
	ErrLeaveAlreadyReviewed = &Error{Kind: KindConflict, Code: CodeLeaveAlreadyReviewed}
)

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...any) error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func SalaryNotSet(format string, args ...any) error {
	return &Error{Kind: KindSalaryNotSet, Message: fmt.Sprintf(format, args...)}
}

// WithCode builds an error of any kind carrying a refining code.
func WithCode(kind Kind, code, format string, args ...any) error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure, usually from storage.
func Internal(err error, format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the refining code of err, or its kind name.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		return e.Kind.String()
	}
	return KindInternal.String()
}

// Message returns a caller-safe message. Internal details are withheld.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		if e.Message != "" {
			return e.Message
		}
		return e.Kind.String()
	}
	return "internal error"
}
