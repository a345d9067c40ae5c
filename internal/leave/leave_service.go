package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mr-RSA369/leave-management-api/internal/events"
	leaveerrors "github.com/mr-RSA369/leave-management-api/internal/leave/errors"
	"github.com/mr-RSA369/leave-management-api/internal/messaging/kafka"
	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
	"github.com/mr-RSA369/leave-management-api/internal/shared/contextutil"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, actorID string, q ListQuery) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, users: users, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
	)

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}

	// Shape errors that leave the dates usable do not short-circuit:
	// the conflict and balance checks still run so one response
	// carries everything wrong with the submission.
	start, end, halfDayPeriod, fields, datesOK := validateSubmission(req, time.Now().UTC())
	if !datesOK {
		s.logger.Warn("submit leave validation failed", zap.Any("fields", fields))
		return LeaveResponse{}, apperror.NewValidation(fields)
	}

	days, err := ComputeDays(req.LeaveType, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByUser(ctx, actorID)
	if err != nil {
		s.logger.Error("submit leave load existing failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// The duplicate and approved-overlap checks deliberately run over
	// overlapping status sets and report independent messages.
	if HasConflict(existing, start, end, StatusPending, StatusApproved) {
		fields["start_date"] = append(fields["start_date"],
			"A leave request already exists for the selected date(s). Please choose different dates.")
	}
	if HasConflict(existing, start, end, StatusApproved) {
		fields["start_date"] = append(fields["start_date"],
			"You have an approved leave request that overlaps with these dates.")
	}

	// Point-in-time balance gate: a request for exactly the remaining
	// balance is allowed.
	remaining := actor.AnnualLeaveEntitlement.Sub(sumDays(existing, StatusApproved))
	if days.GreaterThan(remaining) {
		fields["leave_type"] = append(fields["leave_type"], fmt.Sprintf(
			"Insufficient leave balance. You have %s days remaining but requested %s days.",
			remaining.String(), days.String(),
		))
	}

	if len(fields) > 0 {
		s.logger.Warn("submit leave rejected by policy",
			zap.String("actor_id", actorID),
			zap.Any("fields", fields),
		)
		return LeaveResponse{}, apperror.NewValidation(fields)
	}

	now := time.Now().UTC()
	l := &LeaveRequest{
		ID:            uuid.New(),
		UserID:        actor.ID,
		LeaveType:     req.LeaveType,
		StartDate:     start,
		EndDate:       end,
		HalfDayPeriod: halfDayPeriod,
		DaysCount:     days,
		Reason:        req.Reason,
		Status:        StatusPending,
	}

	// Admin submissions skip the pending state entirely.
	eventType := events.EventLeaveSubmitted
	if actor.Role == user.RoleAdmin {
		l.Status = StatusApproved
		l.ApprovedBy = &actor.ID
		l.ApprovedAt = &now
		eventType = events.EventLeaveApproved
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, eventType, l, actor.ID); err != nil {
		s.logger.Error("submit leave enqueue event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("actor_id", actorID),
		zap.String("status", l.Status),
	)

	l.User = &RequestUser{ID: actor.ID, Name: actor.Name, Email: actor.Email, Role: actor.Role.String()}
	if l.Status == StatusApproved {
		l.Approver = l.User
	}
	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, actorID string, q ListQuery) ([]LeaveResponse, int64, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, 0, apperror.ErrUnauthorized
	}

	// General users only ever see their own requests; the user_id
	// filter is an hr/admin affordance.
	if actor.Role == user.RoleGeneral {
		q.UserID = actorID
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 15
	}

	leaves, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if actor.Role == user.RoleGeneral && l.UserID != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error) {
	if fields := validateRejectionReason(rejectionReason); len(fields) > 0 {
		return LeaveResponse{}, apperror.NewValidation(fields)
	}
	return s.transition(ctx, actorID, id, StatusRejected, rejectionReason)
}

func (s *service) transition(ctx context.Context, actorID, id, targetStatus, rejectionReason string) (LeaveResponse, error) {
	s.logger.Debug("transition leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.AlreadyProcessed(l.Status)
	}

	requesterRole := s.requesterRole(ctx, l)
	if !CanApprove(actor.Role, requesterRole) {
		s.logger.Warn("transition leave hierarchy violation",
			zap.String("leave_id", id),
			zap.String("actor_role", actor.Role.String()),
			zap.String("requester_role", requesterRole.String()),
		)
		hint := ApprovalHint(requesterRole)
		if targetStatus == StatusRejected {
			return LeaveResponse{}, leaveerrors.RejectForbidden(hint)
		}
		return LeaveResponse{}, leaveerrors.ApproveForbidden(hint)
	}

	now := time.Now().UTC()
	var won bool
	if targetStatus == StatusApproved {
		won, err = qtx.MarkApproved(ctx, id, actor.ID, now)
	} else {
		won, err = qtx.MarkRejected(ctx, id, actor.ID, now, rejectionReason)
	}
	if err != nil {
		s.logger.Error("transition leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !won {
		// Lost the conditional update: another actor finished first.
		fresh, ferr := qtx.FindByID(ctx, id)
		if ferr != nil {
			return LeaveResponse{}, leaveerrors.AlreadyProcessed("processed")
		}
		return LeaveResponse{}, leaveerrors.AlreadyProcessed(fresh.Status)
	}

	l.Status = targetStatus
	l.ApprovedBy = &actor.ID
	l.ApprovedAt = &now
	if targetStatus == StatusRejected {
		l.RejectionReason = &rejectionReason
	}

	eventType := events.EventLeaveApproved
	if targetStatus == StatusRejected {
		eventType = events.EventLeaveRejected
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, eventType, l, actor.ID); err != nil {
		s.logger.Error("transition leave enqueue event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("transition leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("actor_id", actorID),
	)

	l.Approver = &RequestUser{ID: actor.ID, Name: actor.Name, Email: actor.Email, Role: actor.Role.String()}
	return mapToResponse(*l), nil
}

// requesterRole reads the submitter's role from the attached join row,
// falling back to a direct lookup when the record arrived bare.
func (s *service) requesterRole(ctx context.Context, l *LeaveRequest) user.Role {
	if l.User != nil {
		if r, err := user.ParseRole(l.User.Role); err == nil {
			return r
		}
	}
	if u, err := s.users.FindByID(ctx, l.UserID.String()); err == nil {
		return u.Role
	}
	return ""
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest, actorID uuid.UUID) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:  eventType,
		LeaveID:    l.ID.String(),
		UserID:     l.UserID.String(),
		ActorID:    actorID.String(),
		Status:     l.Status,
		DaysCount:  l.DaysCount.InexactFloat64(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: kafka.AggregateLeaveRequest,
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// validateSubmission applies the shape rules that depend on leave type
// and returns the parsed dates. Messages accumulate per field so a
// single response reports everything wrong with the submission. The
// final result reports whether the dates are usable; when they are,
// the caller keeps going so conflict and balance errors land in the
// same response. Lengths count characters, not bytes.
func validateSubmission(req SubmitLeaveRequest, now time.Time) (time.Time, time.Time, *string, map[string][]string, bool) {
	fields := map[string][]string{}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		fields["start_date"] = append(fields["start_date"], "Start date must be a valid date in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, nil, fields, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		fields["start_date"] = append(fields["start_date"], "Start date cannot be in the past")
	}

	if n := utf8.RuneCountInString(req.Reason); n < 10 {
		fields["reason"] = append(fields["reason"], "Reason must be at least 10 characters")
	} else if n > 1000 {
		fields["reason"] = append(fields["reason"], "Reason cannot exceed 1000 characters")
	}

	end := start
	var halfDayPeriod *string

	switch req.LeaveType {
	case TypeHalfDay:
		if req.HalfDayPeriod == "" {
			fields["half_day_period"] = append(fields["half_day_period"], "Half day period is required for half-day leave")
		} else {
			p := req.HalfDayPeriod
			halfDayPeriod = &p
		}
		if req.EndDate != "" && req.EndDate != req.StartDate {
			fields["end_date"] = append(fields["end_date"], "End date must be the same as start date")
		}
	case TypeFullDay:
		if req.EndDate != "" && req.EndDate != req.StartDate {
			fields["end_date"] = append(fields["end_date"], "End date must be the same as start date")
		}
	case TypeMultiDay:
		if req.EndDate == "" {
			fields["end_date"] = append(fields["end_date"], "End date is required for multi-day leave")
			return start, start, nil, fields, false
		}
		parsedEnd, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
		if err != nil {
			fields["end_date"] = append(fields["end_date"], "End date must be a valid date in YYYY-MM-DD format")
			return start, start, nil, fields, false
		}
		if !parsedEnd.After(start) {
			fields["end_date"] = append(fields["end_date"], "End date must be after start date")
			return start, parsedEnd, nil, fields, false
		}
		end = parsedEnd
	}

	return start, end, halfDayPeriod, fields, true
}

func validateRejectionReason(reason string) map[string][]string {
	fields := map[string][]string{}
	switch n := utf8.RuneCountInString(reason); {
	case n == 0:
		fields["rejection_reason"] = append(fields["rejection_reason"], "Rejection reason is required")
	case n < 10:
		fields["rejection_reason"] = append(fields["rejection_reason"], "Rejection reason must be at least 10 characters")
	case n > 500:
		fields["rejection_reason"] = append(fields["rejection_reason"], "Rejection reason cannot exceed 500 characters")
	}
	return fields
}

func mapToUserSummary(u *RequestUser) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		UserID:        l.UserID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		HalfDayPeriod: l.HalfDayPeriod,
		DaysCount:     l.DaysCount.InexactFloat64(),
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		User:          mapToUserSummary(l.User),
		Approver:      mapToUserSummary(l.Approver),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
