package repository

import (
	"context"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByTarget 按目标查询，最新的在前
func (r *AuditRepository) ListByTarget(ctx context.Context, target string) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := r.db.WithContext(ctx).Where("target = ?", target).
		Order("created_at DESC").Find(&logs).Error
	return logs, err
}
