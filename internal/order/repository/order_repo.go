package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC").Order("created_at ASC")
}

// Create 连同明细一起创建；订单号重复返回 ConflictError
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		if isDuplicateKey(err) {
			return errs.NewConflictError("orderNo already exists", o.OrderNo)
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// BatchCreate 批量创建订单及明细，需在事务中调用以保证全有或全无
func (r *OrderRepository) BatchCreate(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&orders).Error; err != nil {
		if isDuplicateKey(err) {
			nos := make([]string, 0, len(orders))
			for _, o := range orders {
				nos = append(nos, o.OrderNo)
			}
			return errs.NewConflictError("orderNo already exists", nos...)
		}
		return fmt.Errorf("batch create orders: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.find(ctx, id, false)
}

// LockByID 读取并锁定订单行，同一订单的并发写入在此串行
func (r *OrderRepository) LockByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.find(ctx, id, true)
}

func (r *OrderRepository) find(ctx context.Context, id string, lock bool) (*entity.Order, error) {
	db := r.db.WithContext(ctx)
	query := db
	if lock {
		query = forUpdate(db)
	}
	var o entity.Order
	err := query.Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	// 明细单独查询，行锁只作用于订单行
	if err := preloadItems(db).Where("order_id = ?", id).Find(&o.Items).Error; err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return &o, nil
}

// List 不分页，按创建时间排序
func (r *OrderRepository) List(ctx context.Context, status string) ([]entity.Order, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []entity.Order
	err := query.Preload("Items", preloadItems).
		Order("created_at ASC").Order("id ASC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// FindByOrderNos 按订单号集合查询已存在订单
func (r *OrderRepository) FindByOrderNos(ctx context.Context, orderNos []string) ([]entity.Order, error) {
	if len(orderNos) == 0 {
		return nil, nil
	}
	var orders []entity.Order
	err := r.db.WithContext(ctx).Where("order_no IN ?", orderNos).Order("order_no ASC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by order_no: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) ExistsByOrderNo(ctx context.Context, orderNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("order_no = ?", orderNo).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check order_no: %w", err)
	}
	return count > 0, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count).Error
	return count, err
}

// UpdateBasics 仅更新订单头字段，不处理明细，不修改状态与订单号
func (r *OrderRepository) UpdateBasics(ctx context.Context, o *entity.Order) error {
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", o.ID).
		Select("customer_name", "contact", "currency", "payment_terms", "total_amount",
			"product_req", "packaging_req", "updated_at").
		Updates(map[string]interface{}{
			"customer_name": o.CustomerName,
			"contact":       o.Contact,
			"currency":      o.Currency,
			"payment_terms": o.PaymentTerms,
			"total_amount":  o.TotalAmount,
			"product_req":   o.ProductReq,
			"packaging_req": o.PackagingReq,
			"updated_at":    o.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// UpdateStatus 只应由状态机驱动的服务方法调用
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ReplaceItems 删除旧明细后整体插入
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error; err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Omit(clause.Associations).Create(&items).Error; err != nil {
		return fmt.Errorf("create order items: %w", err)
	}
	return nil
}

// Delete 级联删除订单及其全部下属数据
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	logIDs := db.Model(&entity.WarehouseReceiptLog{}).Select("id").Where("order_id = ?", id)
	steps := []struct {
		name  string
		query *gorm.DB
		model interface{}
	}{
		{"receipt log items", db.Where("log_id IN (?)", logIDs), &entity.WarehouseReceiptLogItem{}},
		{"receipt logs", db.Where("order_id = ?", id), &entity.WarehouseReceiptLog{}},
		{"warehouse receipt", db.Where("order_id = ?", id), &entity.WarehouseReceipt{}},
		{"shipment", db.Where("order_id = ?", id), &entity.Shipment{}},
		{"processes", db.Where("order_id = ?", id), &entity.OrderProcess{}},
		{"materials", db.Where("order_id = ?", id), &entity.MaterialAssessment{}},
		{"production plan", db.Where("order_id = ?", id), &entity.ProductionPlan{}},
		{"order items", db.Where("order_id = ?", id), &entity.OrderItem{}},
		{"order", db.Where("id = ?", id), &entity.Order{}},
	}
	for _, step := range steps {
		if err := step.query.Delete(step.model).Error; err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}
	return nil
}
