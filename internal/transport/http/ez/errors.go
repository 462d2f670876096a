package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/domain"
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Status int
	Msg    string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error    { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error  { return &AErr{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error     { return &AErr{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error      { return &AErr{Status: http.StatusNotFound, Msg: msg} }
func Unprocessable(msg string) error { return &AErr{Status: http.StatusUnprocessableEntity, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         http.StatusUnprocessableEntity,
	domain.KindAlreadyExists:      http.StatusBadRequest,
	domain.KindConflict:           http.StatusConflict,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindInvalidCredentials: http.StatusBadRequest,
	domain.KindInvalidToken:       http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
}

// FromError 错误 → (HTTP 状态码, 对外文案)
func FromError(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			return ae.Status, "internal error"
		}
		return ae.Status, ae.Error()
	}
	// 请求截止时间到了，下游返回的 ctx 错误按 504 处理
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request timed out"
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		return http.StatusUnauthorized, "invalid token"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		if st, ok := kindStatus[de.Kind]; ok {
			return st, de.Msg
		}
	}
	return http.StatusInternalServerError, "internal error"
}

var validatorOnce sync.Once

// configureValidator 给 gin 的校验器注册自定义规则，错误里用 json/form 字段名
//   - notblank: 去掉空白后不能为空
//   - maxbytes=N: 按字节计长度（bcrypt 只接受 72 字节以内）
func configureValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("maxbytes", maxBytes)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		parts := make([]string, 0, len(ves))
		for _, fe := range ves {
			parts = append(parts, fieldMessage(fe))
		}
		return strings.Join(parts, "; ")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email"
	case "datetime":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid url"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
