package balance

import (
	"github.com/mr-RSA369/leave-management-api/internal/leave"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/shopspring/decimal"
)

// Ledger is the computed entitlement consumption for one user.
// Pending days are advisory only; they never reduce the remaining
// balance until approved.
type Ledger struct {
	Entitlement decimal.Decimal
	Used        decimal.Decimal
	Remaining   decimal.Decimal
	Pending     decimal.Decimal
	Breakdown   Breakdown
}

type Breakdown struct {
	Approved int
	Pending  int
	Rejected int
}

// Compute aggregates a user's leave requests into their balance.
// Pure over its inputs; the caller fetches the records.
func Compute(u user.User, requests []leave.LeaveRequest) Ledger {
	used := decimal.Zero
	pending := decimal.Zero
	var breakdown Breakdown

	for _, r := range requests {
		switch r.Status {
		case leave.StatusApproved:
			used = used.Add(r.DaysCount)
			breakdown.Approved++
		case leave.StatusPending:
			pending = pending.Add(r.DaysCount)
			breakdown.Pending++
		case leave.StatusRejected:
			breakdown.Rejected++
		}
	}

	return Ledger{
		Entitlement: u.AnnualLeaveEntitlement,
		Used:        used,
		Remaining:   u.AnnualLeaveEntitlement.Sub(used),
		Pending:     pending,
		Breakdown:   breakdown,
	}
}
