package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusDraft        OrderStatus = "DRAFT"
	StatusInProduction OrderStatus = "IN_PRODUCTION"
	StatusReadyToShip  OrderStatus = "READY_TO_SHIP"
	StatusShipped      OrderStatus = "SHIPPED"
	StatusArchived     OrderStatus = "ARCHIVED"
	StatusCancelled    OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Valid 是否为已定义的状态
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInProduction, StatusReadyToShip, StatusShipped, StatusArchived, StatusCancelled:
		return true
	}
	return false
}

// Order 销售订单
// 客户、联系人、币种、付款方式、总金额属于敏感字段，由 view 包按角色脱敏
type Order struct {
	ID           string           `json:"id" gorm:"primaryKey;size:36"`
	OrderNo      string           `json:"order_no" gorm:"size:64;not null;uniqueIndex"`
	CustomerName *string          `json:"customer_name" gorm:"size:128"`
	Contact      *string          `json:"contact" gorm:"size:128"`
	Currency     *string          `json:"currency" gorm:"size:16"`
	PaymentTerms *string          `json:"payment_terms" gorm:"size:64"`
	TotalAmount  *decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2)"`
	ProductReq   *string          `json:"product_req" gorm:"size:255"`
	PackagingReq *string          `json:"packaging_req" gorm:"size:255"`
	Status       OrderStatus      `json:"status" gorm:"size:32;not null;index"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "ot_orders"
}

// OrderItem 订单明细
type OrderItem struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	OrderID     string           `json:"order_id" gorm:"size:36;not null;index"`
	LineNo      int              `json:"line_no" gorm:"not null;default:0"`
	ProductName string           `json:"product_name" gorm:"size:255;not null"`
	Spec        *string          `json:"spec" gorm:"size:255"`
	Quantity    *int             `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4)"`
	Notes       *string          `json:"notes" gorm:"size:500"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "ot_order_items"
}

// Demand 需求数量，未填写按0计
func (i OrderItem) Demand() int {
	if i.Quantity == nil {
		return 0
	}
	return *i.Quantity
}
