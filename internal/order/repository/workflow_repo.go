package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"gorm.io/gorm"
)

// WorkflowRepository 生产计划、物料评估、工序、入库确认、发货
// 1:1 子实体不存在时返回 nil, nil
type WorkflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

func findOne[T any](db *gorm.DB, orderID string) (*T, error) {
	var v T
	err := db.Where("order_id = ?", orderID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ===== 生产计划 =====

func (r *WorkflowRepository) FindPlan(ctx context.Context, orderID string) (*entity.ProductionPlan, error) {
	p, err := findOne[entity.ProductionPlan](r.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, fmt.Errorf("find production plan: %w", err)
	}
	return p, nil
}

// SavePlan 按主键插入或更新
func (r *WorkflowRepository) SavePlan(ctx context.Context, p *entity.ProductionPlan) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save production plan: %w", err)
	}
	return nil
}

// ===== 物料评估 =====

func (r *WorkflowRepository) ListMaterials(ctx context.Context, orderID string) ([]entity.MaterialAssessment, error) {
	var list []entity.MaterialAssessment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("seq ASC").Order("created_at ASC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return list, nil
}

// ReplaceMaterials 整体替换
func (r *WorkflowRepository) ReplaceMaterials(ctx context.Context, orderID string, list []entity.MaterialAssessment) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&entity.MaterialAssessment{}).Error; err != nil {
		return fmt.Errorf("delete materials: %w", err)
	}
	if len(list) == 0 {
		return nil
	}
	if err := db.Create(&list).Error; err != nil {
		return fmt.Errorf("create materials: %w", err)
	}
	return nil
}

// ===== 工序 =====

func (r *WorkflowRepository) ListProcesses(ctx context.Context, orderID string) ([]entity.OrderProcess, error) {
	var list []entity.OrderProcess
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("seq ASC").Order("created_at ASC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return list, nil
}

// ReplaceProcesses 整体替换
func (r *WorkflowRepository) ReplaceProcesses(ctx context.Context, orderID string, list []entity.OrderProcess) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&entity.OrderProcess{}).Error; err != nil {
		return fmt.Errorf("delete processes: %w", err)
	}
	if len(list) == 0 {
		return nil
	}
	if err := db.Create(&list).Error; err != nil {
		return fmt.Errorf("create processes: %w", err)
	}
	return nil
}

// ===== 入库确认 =====

func (r *WorkflowRepository) FindReceipt(ctx context.Context, orderID string) (*entity.WarehouseReceipt, error) {
	w, err := findOne[entity.WarehouseReceipt](r.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, fmt.Errorf("find warehouse receipt: %w", err)
	}
	return w, nil
}

func (r *WorkflowRepository) SaveReceipt(ctx context.Context, w *entity.WarehouseReceipt) error {
	if err := r.db.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("save warehouse receipt: %w", err)
	}
	return nil
}

// ===== 发货 =====

func (r *WorkflowRepository) FindShipment(ctx context.Context, orderID string) (*entity.Shipment, error) {
	s, err := findOne[entity.Shipment](r.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, fmt.Errorf("find shipment: %w", err)
	}
	return s, nil
}

func (r *WorkflowRepository) SaveShipment(ctx context.Context, s *entity.Shipment) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("save shipment: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) CountShipments(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Shipment{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}
