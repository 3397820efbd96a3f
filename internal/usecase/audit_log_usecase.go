package usecase

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"
)

// スタッフ向けの監査ログ参照
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return []model.AuditLog{}, errValidation("from must be before to")
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, errDB()
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
