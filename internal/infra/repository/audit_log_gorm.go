package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if !log.Action.Valid() || log.Action.Resource() != log.ResourceType || log.ResourceID <= 0 {
		return fmt.Errorf("%w: %s on %s#%d", repo.ErrInvalidAuditEntry, log.Action, log.ResourceType, log.ResourceID)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return mapErr(r.db.WithContext(ctx).Create(&log).Error)
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if f.ActorUserID != nil {
		q = q.Where("actor_user_id = ?", *f.ActorUserID)
	}
	if f.Action != nil {
		q = q.Where("action = ?", *f.Action)
	}
	if f.ResourceType != nil {
		q = q.Where("resource_type = ?", *f.ResourceType)
	}
	if f.ResourceID != nil {
		q = q.Where("resource_id = ?", *f.ResourceID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}

	limit := f.Limit
	if limit <= 0 || limit > repo.AuditLogMaxLimit {
		limit = repo.AuditLogDefaultLimit
	}
	offset := max(f.Offset, 0)

	logs := []model.AuditLog{}
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
