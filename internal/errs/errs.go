package errs

import (
	"errors"
	"fmt"
)

// Kind mengelompokkan kegagalan bisnis supaya boundary HTTP bisa map ke status.
type Kind string

const (
	KindInsufficientStock Kind = "insufficient_stock"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindNotPurchased      Kind = "not_purchased"
	KindDuplicateReview   Kind = "duplicate_review"
	KindUnauthorized      Kind = "unauthorized"
	KindValidation        Kind = "validation"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or "" for plain errors
// (storage failures, context cancellation, dsb).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
