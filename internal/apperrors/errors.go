package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is not in a state that allows the requested transition.
var ErrConflict = errors.New("state conflict")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal wraps unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= http.StatusInternalServerError
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the kind and id of the missing resource.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}
