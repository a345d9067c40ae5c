package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the flattened view handlers write into the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Errors  map[string][]string
}

// ToHTTP maps any error to its HTTP representation. Unknown errors
// become an opaque 500 so internals never leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
