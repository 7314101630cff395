package entity

import (
	"time"
)

// AuditStatus 审计结果
const (
	AuditSuccess = "SUCCESS"
	AuditFail    = "FAIL"
)

// AuditLog 操作审计
type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	Username  string    `json:"username" gorm:"size:100;index"`
	Role      string    `json:"role" gorm:"size:50"`
	Action    string    `json:"action" gorm:"size:80;not null;index"`
	Target    string    `json:"target" gorm:"size:255"`
	Status    string    `json:"status" gorm:"size:20;not null;index"`
	IP        string    `json:"ip" gorm:"size:64"`
	Details   string    `json:"details" gorm:"type:text"`
}

func (AuditLog) TableName() string {
	return "ot_audit_logs"
}
