package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

const (
	AuditLogDefaultLimit = 50
	AuditLogMaxLimit     = 200
)

// action と resource_type の組み合わせが定義外
var ErrInvalidAuditEntry = errors.New("invalid audit entry")

// 監査ログの絞り込み条件。nil は条件なし
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	// 1件保存。ErrInvalidAuditEntry を返すことがある
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
