package balanceerrors

import (
	"net/http"

	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
)

var (
	ErrOwnBalanceOnly = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized. You can only view your own leave balance.",
		http.StatusForbidden,
	)
	ErrAllBalancesForbidden = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized. Only HR and Admin can view all users leave balance.",
		http.StatusForbidden,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
)
