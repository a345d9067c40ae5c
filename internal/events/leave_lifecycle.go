package events

import "time"

const LeaveLifecycleTopic = "leave.lifecycle.v1"

const (
	EventLeaveSubmitted = "leave.submitted"
	EventLeaveApproved  = "leave.approved"
	EventLeaveRejected  = "leave.rejected"
)

type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id"`
	Status     string    `json:"status"`
	DaysCount  float64   `json:"days_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
