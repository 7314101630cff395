package repository

import (
	"context"
	"fmt"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"gorm.io/gorm"
)

// ReceiptRepository 入库记录（分批收货）
type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// CreateLog 入库记录与明细一起写入
func (r *ReceiptRepository) CreateLog(ctx context.Context, log *entity.WarehouseReceiptLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create receipt log: %w", err)
	}
	return nil
}

// ListLogs 最新的在前
func (r *ReceiptRepository) ListLogs(ctx context.Context, orderID string) ([]entity.WarehouseReceiptLog, error) {
	var logs []entity.WarehouseReceiptLog
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Preload("Items").
		Order("received_at DESC").Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list receipt logs: %w", err)
	}
	return logs, nil
}

func (r *ReceiptRepository) HasLogs(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.WarehouseReceiptLog{}).
		Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count receipt logs: %w", err)
	}
	return count > 0, nil
}

// SumQtyByOrderItem 订单下所有入库记录按明细汇总
func (r *ReceiptRepository) SumQtyByOrderItem(ctx context.Context, orderID string) (map[string]int, error) {
	var rows []struct {
		OrderItemID string
		Total       int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT li.order_item_id AS order_item_id, COALESCE(SUM(li.qty), 0) AS total
		FROM ot_warehouse_receipt_log_items li
		JOIN ot_warehouse_receipt_logs l ON l.id = li.log_id
		WHERE l.order_id = ?
		GROUP BY li.order_item_id
	`, orderID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum received qty: %w", err)
	}
	received := make(map[string]int, len(rows))
	for _, row := range rows {
		received[row.OrderItemID] = int(row.Total)
	}
	return received, nil
}
