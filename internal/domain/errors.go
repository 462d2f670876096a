package domain

import "errors"

// Kind 错误大类，传输层据此映射状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAlreadyExists
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindInvalidToken
	KindForbidden
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

var (
	ErrUsernameTaken      = newErr(KindAlreadyExists, "username already exists")
	ErrEmailTaken         = newErr(KindAlreadyExists, "email already exists")
	ErrUserNotFound       = newErr(KindNotFound, "user not found")
	ErrInvalidCredentials = newErr(KindInvalidCredentials, "invalid credentials")
	ErrUIDExhausted       = newErr(KindInternal, "could not allocate user uid")
	ErrPasswordTooLong    = newErr(KindValidation, "password must be at most 72 bytes")

	ErrListNotFound = newErr(KindNotFound, "list not found")

	ErrProductNotFound = newErr(KindNotFound, "product not found")
	ErrBarcodeConflict = newErr(KindConflict, "product barcode already exists")
	ErrInvalidExpiry   = newErr(KindValidation, "expiry_date must be YYYY-MM-DD")

	ErrPermissionNotFound = newErr(KindNotFound, "permission not found")
	ErrAlreadyGranted     = newErr(KindConflict, "permission already granted")
	ErrSelfGrant          = newErr(KindValidation, "cannot share a list with yourself")
)

// Required 去掉空白后为空的必填字段
func Required(field string) error {
	return newErr(KindValidation, field+" is required")
}

// KindOf 取错误大类，非 *Error 归为 Internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
