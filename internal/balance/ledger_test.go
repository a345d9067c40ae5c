package balance_test

import (
	"testing"

	"github.com/mr-RSA369/leave-management-api/internal/balance"
	"github.com/mr-RSA369/leave-management-api/internal/leave"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	u := user.User{AnnualLeaveEntitlement: decimal.NewFromInt(30)}

	t.Run("success mixed statuses", func(t *testing.T) {
		requests := []leave.LeaveRequest{
			{Status: leave.StatusApproved, DaysCount: decimal.NewFromInt(5)},
			{Status: leave.StatusApproved, DaysCount: decimal.NewFromFloat(2.5)},
			{Status: leave.StatusPending, DaysCount: decimal.NewFromInt(1)},
			{Status: leave.StatusRejected, DaysCount: decimal.NewFromInt(4)},
		}

		ledger := balance.Compute(u, requests)

		assert.Equal(t, "30", ledger.Entitlement.String())
		assert.Equal(t, "7.5", ledger.Used.String())
		assert.Equal(t, "22.5", ledger.Remaining.String())
		assert.Equal(t, "1", ledger.Pending.String())
		assert.Equal(t, 2, ledger.Breakdown.Approved)
		assert.Equal(t, 1, ledger.Breakdown.Pending)
		assert.Equal(t, 1, ledger.Breakdown.Rejected)
	})

	t.Run("success no requests", func(t *testing.T) {
		ledger := balance.Compute(u, nil)

		assert.Equal(t, "30", ledger.Remaining.String())
		assert.True(t, ledger.Used.IsZero())
		assert.True(t, ledger.Pending.IsZero())
		assert.Equal(t, balance.Breakdown{}, ledger.Breakdown)
	})

	t.Run("pending days never reduce remaining", func(t *testing.T) {
		requests := []leave.LeaveRequest{
			{Status: leave.StatusPending, DaysCount: decimal.NewFromInt(29)},
		}

		ledger := balance.Compute(u, requests)

		assert.Equal(t, "30", ledger.Remaining.String())
		assert.Equal(t, "29", ledger.Pending.String())
	})

	t.Run("remaining can go negative after entitlement reduction", func(t *testing.T) {
		small := user.User{AnnualLeaveEntitlement: decimal.NewFromInt(5)}
		requests := []leave.LeaveRequest{
			{Status: leave.StatusApproved, DaysCount: decimal.NewFromInt(8)},
		}

		ledger := balance.Compute(small, requests)

		assert.Equal(t, "-3", ledger.Remaining.String())
	})
}
