package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有订单跟踪表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 订单
		&Order{},
		&OrderItem{},

		// 生产
		&ProductionPlan{},
		&MaterialAssessment{},
		&OrderProcess{},

		// 仓库
		&WarehouseReceipt{},
		&WarehouseReceiptLog{},
		&WarehouseReceiptLogItem{},

		// 发货
		&Shipment{},

		// 审计
		&AuditLog{},
	)
}
