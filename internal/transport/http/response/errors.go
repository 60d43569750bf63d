package response

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-office-rental/internal/core/storage"
	"go-office-rental/internal/domain"
)

var codeOfErr = []struct {
	err  error
	code int
}{
	{domain.ErrUnauthenticated, CodeUnauthorized},
	{domain.ErrForbidden, CodeForbidden},
	{domain.ErrInvalidID, CodeBadRequest},
	{domain.ErrValidation, CodeValidation},
	{domain.ErrNotFound, CodeNotFound},
	{domain.ErrConflict, CodeConflict},
	{domain.ErrRemoteService, CodeBadGateway},
	{storage.ErrDisabled, CodeUnavailable},
}

// CodeOf 领域错误 → 业务码；未识别的一律 500，且不暴露内部信息
func CodeOf(err error) (int, string) {
	for _, m := range codeOfErr {
		if errors.Is(err, m.err) {
			if m.code == CodeForbidden {
				return m.code, domain.ErrForbidden.Error()
			}
			return m.code, err.Error()
		}
	}
	return CodeServerError, CodeMsgMap[CodeServerError]
}

func Fail(err error) Resp {
	code, msg := CodeOf(err)
	return Error(code, msg)
}

// BindError 入参绑定 / 校验失败统一为 422
func BindError(err error) Resp {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldMsg(fe))
		}
		return Error(CodeValidation, strings.Join(msgs, "; "))
	}
	return Error(CodeValidation, "malformed request: "+err.Error())
}

func fieldMsg(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min", "gte", "gt":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max", "lte", "lt":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "credit_card":
		return name + " must be a valid card number"
	default:
		return fmt.Sprintf("%s failed on %q", name, fe.Tag())
	}
}

// JSONFieldNames 让校验错误里的字段名与请求 JSON 一致
func JSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}
