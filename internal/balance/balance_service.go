package balance

import (
	"context"
	"errors"

	balanceerrors "github.com/mr-RSA369/leave-management-api/internal/balance/errors"
	"github.com/mr-RSA369/leave-management-api/internal/leave"
	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetForUser(ctx context.Context, actorID, targetUserID string) (BalanceResponse, error)
	GetAll(ctx context.Context, actorID, roleFilter string) ([]BalanceSummary, error)
}

type service struct {
	users  user.Repository
	leaves leave.Repository
	logger *zap.Logger
}

func NewService(users user.Repository, leaves leave.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{users: users, leaves: leaves, logger: l}
}

func (s *service) GetForUser(ctx context.Context, actorID, targetUserID string) (BalanceResponse, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return BalanceResponse{}, apperror.ErrUnauthorized
	}

	if actor.Role == user.RoleGeneral && targetUserID != "" && targetUserID != actorID {
		return BalanceResponse{}, balanceerrors.ErrOwnBalanceOnly
	}
	if targetUserID == "" || actor.Role == user.RoleGeneral {
		targetUserID = actorID
	}

	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrUserNotFound
		}
		return BalanceResponse{}, err
	}

	requests, err := s.leaves.FindByUser(ctx, targetUserID)
	if err != nil {
		s.logger.Error("balance load requests failed",
			zap.String("user_id", targetUserID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	ledger := Compute(*target, requests)

	return BalanceResponse{
		UserID:                 target.ID.String(),
		UserName:               target.Name,
		UserEmail:              target.Email,
		UserRole:               target.Role.String(),
		AnnualLeaveEntitlement: ledger.Entitlement.InexactFloat64(),
		UsedDays:               ledger.Used.InexactFloat64(),
		RemainingDays:          ledger.Remaining.InexactFloat64(),
		PendingRequestsDays:    ledger.Pending.InexactFloat64(),
		Breakdown: BreakdownResponse{
			ApprovedLeaves: ledger.Breakdown.Approved,
			PendingLeaves:  ledger.Breakdown.Pending,
			RejectedLeaves: ledger.Breakdown.Rejected,
		},
	}, nil
}

func (s *service) GetAll(ctx context.Context, actorID, roleFilter string) ([]BalanceSummary, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if actor.Role == user.RoleGeneral {
		return nil, balanceerrors.ErrAllBalancesForbidden
	}

	users, err := s.users.FindAll(ctx, roleFilter)
	if err != nil {
		return nil, err
	}

	summaries := make([]BalanceSummary, 0, len(users))
	for _, u := range users {
		requests, err := s.leaves.FindByUser(ctx, u.ID.String())
		if err != nil {
			s.logger.Error("balance load requests failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}

		ledger := Compute(u, requests)
		summaries = append(summaries, BalanceSummary{
			UserID:                 u.ID.String(),
			UserName:               u.Name,
			UserEmail:              u.Email,
			UserRole:               u.Role.String(),
			AnnualLeaveEntitlement: ledger.Entitlement.InexactFloat64(),
			UsedDays:               ledger.Used.InexactFloat64(),
			RemainingDays:          ledger.Remaining.InexactFloat64(),
			PendingRequestsDays:    ledger.Pending.InexactFloat64(),
		})
	}

	return summaries, nil
}
