package leave

type SubmitLeaveRequest struct {
	LeaveType     string `json:"leave_type" binding:"required,oneof=full_day half_day multi_day"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date"`
	HalfDayPeriod string `json:"half_day_period" binding:"omitempty,oneof=first_half second_half"`
	Reason        string `json:"reason" binding:"required"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type ListQuery struct {
	Status  string
	UserID  string
	Page    int
	PerPage int
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LeaveResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	LeaveType       string       `json:"leave_type"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	HalfDayPeriod   *string      `json:"half_day_period,omitempty"`
	DaysCount       float64      `json:"days_count"`
	Reason          string       `json:"reason"`
	Status          string       `json:"status"`
	ApprovedBy      *string      `json:"approved_by,omitempty"`
	ApprovedAt      *string      `json:"approved_at,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	CreatedAt       string       `json:"created_at"`
	User            *UserSummary `json:"user,omitempty"`
	Approver        *UserSummary `json:"approver,omitempty"`
}
