package bootstrap_test

import (
	"context"
	"testing"

	"github.com/mr-RSA369/leave-management-api/internal/bootstrap"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	t.Run("success lifecycle entry carries leave and actor ids", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		auditLogger := bootstrap.NewStdoutAuditLogger(zap.New(core))

		auditLogger.Log(context.Background(), bootstrap.AuditLog{
			Action:  "LEAVE_APPROVED",
			Message: "Leave request 9f1 approved by 7ac",
			LeaveID: "9f1",
			ActorID: "7ac",
			Meta:    map[string]any{"status": "approved"},
		})

		entries := logs.All()
		assert.Len(t, entries, 1)

		fields := entries[0].ContextMap()
		assert.Equal(t, "LEAVE_APPROVED", fields["action"])
		assert.Equal(t, "9f1", fields["leave_id"])
		assert.Equal(t, "7ac", fields["actor_id"])
	})

	t.Run("success operational entry omits lifecycle fields", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		auditLogger := bootstrap.NewStdoutAuditLogger(zap.New(core))

		auditLogger.Log(context.Background(), bootstrap.AuditLog{
			Action:  "SERVER_SHUTDOWN",
			Message: "Server is shutting down",
			Meta:    map[string]any{"signal": "terminated"},
		})

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "SERVER_SHUTDOWN", fields["action"])
		_, hasLeave := fields["leave_id"]
		assert.False(t, hasLeave)
		_, hasActor := fields["actor_id"]
		assert.False(t, hasActor)
	})
}
