package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the error type every service returns for expected failures.
// Fields carries the field -> messages map for validation failures.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     map[string][]string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap so errors.Is/As see the cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap creates an AppError that wraps an existing error.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// NewValidation builds the 422 error carrying per-field messages.
func NewValidation(fields map[string][]string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    "Validation error",
		HTTPStatus: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}
