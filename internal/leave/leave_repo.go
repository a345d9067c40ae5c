package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	List(ctx context.Context, q ListQuery) ([]LeaveRequest, int64, error)
	MarkApproved(ctx context.Context, id string, approvedBy uuid.UUID, approvedAt time.Time) (bool, error)
	MarkRejected(ctx context.Context, id string, rejectedBy uuid.UUID, rejectedAt time.Time, reason string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds every statement of the returned repository to the
// caller's transaction, so the leave write commits or rolls back
// together with the outbox row the service enqueues on the same tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]LeaveRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})

	if q.UserID != "" {
		db = db.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err := db.
		Preload("User").
		Preload("Approver").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&leaves).Error
	return leaves, total, err
}

// MarkApproved performs the conditional status write: the row only
// changes while still pending, and the affected-row count tells the
// caller whether it won the transition.
func (r *repository) MarkApproved(ctx context.Context, id string, approvedBy uuid.UUID, approvedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":      StatusApproved,
			"approved_by": approvedBy,
			"approved_at": approvedAt,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) MarkRejected(ctx context.Context, id string, rejectedBy uuid.UUID, rejectedAt time.Time, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":           StatusRejected,
			"approved_by":      rejectedBy,
			"approved_at":      rejectedAt,
			"rejection_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}
