package repository

import (
	"context"
	"time"

	"estoque/internal/domain/model"
)

type AuditLogFilter struct {
	Actor       *string
	Action      *model.AuditAction
	ResourceID  *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// Persistência do log de auditoria.
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
