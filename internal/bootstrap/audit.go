package bootstrap

import "context"

// AuditLog is a single auditable occurrence. Lifecycle entries carry
// the leave request and the acting user; operational entries such as
// server shutdown leave both empty and use Meta alone.
type AuditLog struct {
	Action  string
	Message string
	LeaveID string
	ActorID string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
