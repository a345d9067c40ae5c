package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AggregateLeaveRequest is the aggregate type of every event this
// system emits. The column is still stored so the relay needs no
// schema change if another aggregate ever appears.
const AggregateLeaveRequest = "leave_request"

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	retryBackoffStep = 15 * time.Second
	maxBackoffSteps  = 10
	errorMessageCap  = 500
)

// OutboxEvent is one leave lifecycle message awaiting relay to Kafka.
// RequestID carries the originating HTTP request id so the relay and
// every downstream consumer can be correlated with the API call that
// produced the event.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

// Create inserts the event on the caller's transaction when one was
// bound via WithTx, so the leave write and its event commit together.
// AggregateType and Status default to leave_request/pending.
func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if event.AggregateType == "" {
		event.AggregateType = AggregateLeaveRequest
	}
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	if err := validateOutboxEvent(event); err != nil {
		return err
	}

	query := `
INSERT INTO outbox_events
	(id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.conn().ExecContext(ctx, query,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending returns due rows oldest first: fresh pending events plus
// failed ones whose backoff has elapsed.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `
SELECT
	id::text, request_id, aggregate_type, aggregate_id,
	event_type, topic, payload, status, retry_count,
	COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3
`
	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID,
			&e.EventType, &e.Topic, &e.Payload, &e.Status, &e.RetryCount,
			&e.NextRetryAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusSent)
	return err
}

// MarkFailed records the publish error and schedules the next attempt
// with a linear backoff capped at maxBackoffSteps steps.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := fmt.Sprintf(`
UPDATE outbox_events
SET
	status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, %d),
	next_retry_at = NOW() + (LEAST(retry_count + 1, %d) * INTERVAL '%d seconds'),
	updated_at = NOW()
WHERE id = $1
`, errorMessageCap, maxBackoffSteps, int(retryBackoffStep.Seconds()))
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusFailed, reason)
	return err
}

func (r *outboxRepository) conn() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func validateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
