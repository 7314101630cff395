package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories 订单跟踪仓库集合
type Repositories struct {
	db       *gorm.DB
	Order    *OrderRepository
	Workflow *WorkflowRepository
	Receipt  *ReceiptRepository
	Audit    *AuditRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Order:    NewOrderRepository(db),
		Workflow: NewWorkflowRepository(db),
		Receipt:  NewReceiptRepository(db),
		Audit:    NewAuditRepository(db),
	}
}

// Transaction 在同一事务内执行 fn，fn 返回错误则整体回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// DB 底层连接，仅供测试与迁移使用
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// forUpdate 行锁；sqlite 等不支持行锁的方言直接跳过
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
