package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mr-RSA369/leave-management-api/internal/bootstrap"
	"github.com/mr-RSA369/leave-management-api/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle reads leave lifecycle events and records them
// through the audit logger. Messages that cannot be decoded are
// committed and skipped so the partition does not stall.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  auditAction(event.EventType),
			Message: auditMessage(event),
			LeaveID: event.LeaveID,
			ActorID: event.ActorID,
			Meta: map[string]any{
				"user_id":    event.UserID,
				"status":     event.Status,
				"days_count": event.DaysCount,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave lifecycle event recorded",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}

func auditAction(eventType string) string {
	return strings.ToUpper(strings.ReplaceAll(eventType, ".", "_"))
}

func auditMessage(event events.LeaveLifecycleEvent) string {
	switch event.EventType {
	case events.EventLeaveSubmitted:
		return fmt.Sprintf("Leave request %s submitted for %s days", event.LeaveID, formatDays(event.DaysCount))
	case events.EventLeaveApproved:
		return fmt.Sprintf("Leave request %s approved by %s", event.LeaveID, event.ActorID)
	case events.EventLeaveRejected:
		return fmt.Sprintf("Leave request %s rejected by %s", event.LeaveID, event.ActorID)
	default:
		return fmt.Sprintf("Leave request %s changed to %s", event.LeaveID, event.Status)
	}
}

func formatDays(days float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", days), "0"), ".")
}
