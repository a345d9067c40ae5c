package leave

import (
	"time"

	leaveerrors "github.com/mr-RSA369/leave-management-api/internal/leave/errors"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/shopspring/decimal"
)

var (
	daysHalf = decimal.NewFromFloat(0.5)
	daysFull = decimal.NewFromInt(1)
)

// ComputeDays converts a request into its decimal day cost. Multi-day
// spans count both endpoints; weekends and holidays are not excluded.
func ComputeDays(leaveType string, start, end time.Time) (decimal.Decimal, error) {
	switch leaveType {
	case TypeHalfDay:
		return daysHalf, nil
	case TypeFullDay:
		return daysFull, nil
	case TypeMultiDay:
		if end.Before(start) {
			return decimal.Zero, leaveerrors.ErrInvalidDateRange
		}
		span := int64(end.Sub(start).Hours()/24) + 1
		return decimal.NewFromInt(span), nil
	default:
		return decimal.Zero, leaveerrors.ErrInvalidLeaveType
	}
}

// HasConflict runs the closed-interval overlap test between the
// candidate range and every existing request whose status is in the
// given set. The three-clause form is deliberate: it keeps shared
// boundary days (candidate ends the day an existing leave starts)
// counted as conflicts.
func HasConflict(existing []LeaveRequest, candidateStart, candidateEnd time.Time, statuses ...string) bool {
	inStatus := func(s string) bool {
		for _, st := range statuses {
			if s == st {
				return true
			}
		}
		return false
	}

	within := func(d, lo, hi time.Time) bool {
		return !d.Before(lo) && !d.After(hi)
	}

	for _, r := range existing {
		if !inStatus(r.Status) {
			continue
		}
		if within(r.StartDate, candidateStart, candidateEnd) ||
			within(r.EndDate, candidateStart, candidateEnd) ||
			(!r.StartDate.After(candidateStart) && !r.EndDate.Before(candidateEnd)) {
			return true
		}
	}
	return false
}

// CanApprove delegates to the role hierarchy guard. The requester role
// comes from the record's attached user, never from request input.
func CanApprove(actor user.Role, requester user.Role) bool {
	return actor.CanApprove(requester)
}

// ApprovalHint explains which role is allowed to process a request
// from the given requester role. Appended to 403 responses.
func ApprovalHint(requester user.Role) string {
	switch requester {
	case user.RoleGeneral:
		return "General user leave requests must be approved by HR."
	case user.RoleHR:
		return "HR leave requests must be approved by Admin."
	}
	return "Invalid approval request."
}

// sumDays totals days_count over requests in the given status.
func sumDays(requests []LeaveRequest, status string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range requests {
		if r.Status == status {
			total = total.Add(r.DaysCount)
		}
	}
	return total
}
