package usecase

import (
	"errors"
	"fmt"
)

// エラーの分類。handlerでHTTPステータスに変換する
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindBusiness
	KindConflict
	KindUnauthorized
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBusiness:
		return "business"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

const (
	MsgConflict           = "The item was modified by another user. Please try again."
	MsgInvalidCredentials = "Invalid username or password"
	MsgAccessDenied       = "Access denied"
	MsgValidationFailed   = "Validation failed"
)

// 分類済みのエラー
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // KindValidationのときだけ
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// IsKind はerrがkindに分類されているか
func IsKind(err error, kind Kind) bool {
	ue, ok := AsError(err)
	return ok && ue.Kind == kind
}

func NewNotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewBusiness(format string, args ...any) error {
	return &Error{Kind: KindBusiness, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(cause error) error {
	return &Error{Kind: KindConflict, Message: MsgConflict, Err: cause}
}

func NewUnauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NewForbidden(msg string) error {
	if msg == "" {
		msg = MsgAccessDenied
	}
	return &Error{Kind: KindForbidden, Message: msg}
}

func NewValidation(fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: MsgValidationFailed, Fields: fields}
}
