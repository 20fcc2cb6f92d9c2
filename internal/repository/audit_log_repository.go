package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// GET /api/audit-logs の絞り込み。nilは条件なし
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int // 0なら既定値
	Offset       int
}

// 在庫更新・注文ステータス変更・ロール変更の記録。更新と削除はしない
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// id降順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
