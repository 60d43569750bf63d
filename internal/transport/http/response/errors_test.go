package response

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-office-rental/internal/core/storage"
	"go-office-rental/internal/domain"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnauthenticated, CodeUnauthorized},
		{fmt.Errorf("wrap: %w", domain.ErrForbidden), CodeForbidden},
		{domain.ErrInvalidID, CodeBadRequest},
		{domain.ErrValidation, CodeValidation},
		{fmt.Errorf("office %w", domain.ErrNotFound), CodeNotFound},
		{domain.ErrEmailTaken, CodeConflict},
		{domain.ErrAlreadyRented, CodeConflict},
		{domain.ErrRemoteService, CodeBadGateway},
		{storage.ErrDisabled, CodeUnavailable},
		{errors.New("dial tcp 10.0.0.1:5432: connection refused"), CodeServerError},
	}
	for _, tc := range cases {
		code, _ := CodeOf(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	r := Fail(errors.New("pq: password authentication failed for user app"))
	assert.Equal(t, CodeServerError, r.Code)
	assert.Equal(t, CodeMsgMap[CodeServerError], r.Msg)
}

func TestForbiddenMessageIsFixed(t *testing.T) {
	r := Fail(fmt.Errorf("office 123 owned by u2: %w", domain.ErrForbidden))
	assert.Equal(t, domain.ErrForbidden.Error(), r.Msg)
}

func TestBindError(t *testing.T) {
	type in struct {
		Email string `validate:"required,email"`
		Role  string `validate:"oneof=owner renter"`
	}
	err := validator.New().Struct(in{Email: "x", Role: "admin"})
	require.Error(t, err)
	r := BindError(err)
	assert.Equal(t, CodeValidation, r.Code)
	assert.Contains(t, r.Msg, "Email must be a valid email")
	assert.Contains(t, r.Msg, "Role must be one of [owner renter]")

	r = BindError(errors.New("unexpected EOF"))
	assert.Equal(t, CodeValidation, r.Code)
}
