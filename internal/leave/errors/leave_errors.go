package leaveerrors

import (
	"net/http"

	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
)

var (
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"Leave type must be one of: full_day, half_day, multi_day",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"End date must be after start date",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized to view this leave request",
		http.StatusForbidden,
	)
)

// AlreadyProcessed reports a transition attempt on a terminal record,
// carrying the current status in the message.
func AlreadyProcessed(status string) *apperror.AppError {
	return apperror.New(
		apperror.CodeAlreadyProcessed,
		"Leave request has already been "+status,
		http.StatusBadRequest,
	)
}

// ApproveForbidden and RejectForbidden carry the hierarchy explanation
// for the failed action.
func ApproveForbidden(hint string) *apperror.AppError {
	return apperror.New(
		apperror.CodeForbidden,
		"You are not authorized to approve this leave request. "+hint,
		http.StatusForbidden,
	)
}

func RejectForbidden(hint string) *apperror.AppError {
	return apperror.New(
		apperror.CodeForbidden,
		"You are not authorized to reject this leave request. "+hint,
		http.StatusForbidden,
	)
}
