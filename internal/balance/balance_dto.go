package balance

type BreakdownResponse struct {
	ApprovedLeaves int `json:"approved_leaves"`
	PendingLeaves  int `json:"pending_leaves"`
	RejectedLeaves int `json:"rejected_leaves"`
}

type BalanceResponse struct {
	UserID                 string            `json:"user_id"`
	UserName               string            `json:"user_name"`
	UserEmail              string            `json:"user_email"`
	UserRole               string            `json:"user_role"`
	AnnualLeaveEntitlement float64           `json:"annual_leave_entitlement"`
	UsedDays               float64           `json:"used_days"`
	RemainingDays          float64           `json:"remaining_days"`
	PendingRequestsDays    float64           `json:"pending_requests_days"`
	Breakdown              BreakdownResponse `json:"breakdown"`
}

// BalanceSummary is the per-user row of the /leave-balance/all listing;
// it omits the breakdown counts.
type BalanceSummary struct {
	UserID                 string  `json:"user_id"`
	UserName               string  `json:"user_name"`
	UserEmail              string  `json:"user_email"`
	UserRole               string  `json:"user_role"`
	AnnualLeaveEntitlement float64 `json:"annual_leave_entitlement"`
	UsedDays               float64 `json:"used_days"`
	RemainingDays          float64 `json:"remaining_days"`
	PendingRequestsDays    float64 `json:"pending_requests_days"`
}
