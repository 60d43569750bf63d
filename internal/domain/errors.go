package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("not authorized to act on this resource")
	ErrInvalidID       = errors.New("invalid identifier")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRemoteService   = errors.New("payment service failure")
	ErrValidation      = errors.New("validation failed")
)

var (
	ErrEmailTaken    = fmt.Errorf("%w: user with this email already exists", ErrConflict)
	ErrAlreadyRented = fmt.Errorf("%w: office is already rented", ErrConflict)
)
