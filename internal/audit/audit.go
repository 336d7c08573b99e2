// Package audit registra eventos de seguridad del staff en el logger "audit".
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/comanda/internal/observability/logger"
)

const (
	EventLogin        = "auth.login"
	EventLoginFailed  = "auth.login_failed"
	EventLogout       = "auth.logout"
	EventStaffCreated = "staff.created"
	EventStaffDeleted = "staff.deleted"
)

// Log escribe el evento con el logger del request (request_id incluido).
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, zap.String("event", event))...)
}
