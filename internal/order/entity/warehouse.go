package entity

import (
	"time"
)

// WarehouseReceipt 入库确认（整单），每个订单至多一条
type WarehouseReceipt struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string    `json:"order_id" gorm:"size:36;not null;uniqueIndex"`
	ReceivedBy string    `json:"received_by" gorm:"size:64"`
	Note       string    `json:"note" gorm:"size:500"`
	ReceivedAt time.Time `json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (WarehouseReceipt) TableName() string {
	return "ot_warehouse_receipts"
}

// WarehouseReceiptLog 入库记录，一次实际收货一条，支持分批
type WarehouseReceiptLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string    `json:"order_id" gorm:"size:36;not null;index"`
	ReceivedAt time.Time `json:"received_at" gorm:"not null;index"`
	ReceivedBy string    `json:"received_by" gorm:"size:64"`
	Note       string    `json:"note" gorm:"size:500"`
	CreatedAt  time.Time `json:"created_at"`

	Items []WarehouseReceiptLogItem `json:"items,omitempty" gorm:"foreignKey:LogID"`
}

func (WarehouseReceiptLog) TableName() string {
	return "ot_warehouse_receipt_logs"
}

// WarehouseReceiptLogItem 入库记录明细
type WarehouseReceiptLogItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	LogID       string `json:"log_id" gorm:"size:36;not null;index"`
	OrderItemID string `json:"order_item_id" gorm:"size:36;not null;index"`
	Qty         int    `json:"qty" gorm:"not null"`
}

func (WarehouseReceiptLogItem) TableName() string {
	return "ot_warehouse_receipt_log_items"
}

// Shipment 发货，每个订单至多一条
type Shipment struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	OrderID         string     `json:"order_id" gorm:"size:36;not null;uniqueIndex"`
	PlannedShipDate *time.Time `json:"planned_ship_date"`
	ShippedAt       *time.Time `json:"shipped_at"`
	ConfirmedBy     string     `json:"confirmed_by" gorm:"size:64"`
	Note            string     `json:"note" gorm:"size:500"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Shipment) TableName() string {
	return "ot_shipments"
}
