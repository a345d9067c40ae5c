package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeFullDay  = "full_day"
	TypeHalfDay  = "half_day"
	TypeMultiDay = "multi_day"
)

const (
	PeriodFirstHalf  = "first_half"
	PeriodSecondHalf = "second_half"
)

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates"`

	LeaveType     string          `gorm:"type:varchar(20);not null"`
	StartDate     time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate       time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	HalfDayPeriod *string         `gorm:"type:varchar(20)"`
	DaysCount     decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Reason        string          `gorm:"type:text;not null"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`
	ApprovedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by the repository before the record reaches the
	// policy checks; the policy code itself never touches the store.
	User     *RequestUser `gorm:"foreignKey:UserID"`
	Approver *RequestUser `gorm:"foreignKey:ApprovedBy"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// RequestUser is the slim join projection of the users table attached
// to a leave request for responses and the approval guard.
type RequestUser struct {
	ID    uuid.UUID `gorm:"primaryKey"`
	Name  string
	Email string
	Role  string
}

func (RequestUser) TableName() string {
	return "users"
}
