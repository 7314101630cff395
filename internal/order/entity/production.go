package entity

import (
	"time"
)

// ProductionPlan 生产计划，每个订单至多一条
type ProductionPlan struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	OrderID          string     `json:"order_id" gorm:"size:36;not null;uniqueIndex"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	PlannedShipDate  *time.Time `json:"planned_ship_date"`
	Note             string     `json:"note" gorm:"size:500"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (ProductionPlan) TableName() string {
	return "ot_production_plans"
}

// ProcurementType 物料采购类型
const (
	ProcurementExternalPurchase = "EXTERNAL_PURCHASE" // 外购
	ProcurementInStock          = "IN_STOCK"          // 库存
)

// MaterialAssessment 物料评估
type MaterialAssessment struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID         string    `json:"order_id" gorm:"size:36;not null;index"`
	Seq             int       `json:"seq" gorm:"not null;default:0"`
	MaterialName    string    `json:"material_name" gorm:"size:255;not null"`
	ProcurementType string    `json:"procurement_type" gorm:"size:32"`
	Note            string    `json:"note" gorm:"size:500"`
	CreatedAt       time.Time `json:"created_at"`
}

func (MaterialAssessment) TableName() string {
	return "ot_material_assessments"
}

// OrderProcess 生产工序进度
type OrderProcess struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID          string    `json:"order_id" gorm:"size:36;not null;index"`
	Seq              int       `json:"seq" gorm:"not null;default:0"`
	ProcessName      string    `json:"process_name" gorm:"size:255;not null"`
	TargetQuantity   *int      `json:"target_quantity"`
	FinishedQuantity int       `json:"finished_quantity" gorm:"not null;default:0"`
	Note             string    `json:"note" gorm:"size:500"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (OrderProcess) TableName() string {
	return "ot_order_processes"
}
