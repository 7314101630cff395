// Package workflow holds the order status state machine and the receipt
// reconciliation arithmetic. Everything here is pure: callers load state,
// ask for the next status, and persist it.
//
//	DRAFT ──> IN_PRODUCTION ──> READY_TO_SHIP ──> SHIPPED ──> ARCHIVED
//	  (plan/materials/processes)  (receipt confirm)   (ship confirm)
//
// CANCELLED is a terminal sink reachable only through ForceStatus.
package workflow

import (
	"fmt"
	"strings"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
)

type Status = entity.OrderStatus

// Initial 新建订单状态
func Initial() Status {
	return entity.StatusDraft
}

// ParseStatus 大小写不敏感
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// OnWorkflowEdit 计划/物料/工序任一写入时推进：DRAFT → IN_PRODUCTION，其它状态不变
func OnWorkflowEdit(s Status) Status {
	if s == entity.StatusDraft {
		return entity.StatusInProduction
	}
	return s
}

// ProcessProgress 工序进度
type ProcessProgress struct {
	Name     string
	Target   *int
	Finished int
}

// Done target 为空视为无目标
func (p ProcessProgress) Done() bool {
	return p.Target == nil || p.Finished >= *p.Target
}

// ConfirmReceipt 至少一道工序且全部完成才能整单入库
// 已发货/已归档的订单重复确认不回退状态；已取消的订单不可入库
func ConfirmReceipt(s Status, processes []ProcessProgress) (Status, error) {
	if s == entity.StatusCancelled {
		return s, errs.NewPreconditionError("order is cancelled")
	}
	if len(processes) == 0 {
		return s, errs.NewPreconditionError("processes not finished yet: no process defined")
	}
	for _, p := range processes {
		if !p.Done() {
			return s, errs.NewPreconditionError(fmt.Sprintf(
				"processes not finished yet: %s finished %d of %d", p.Name, p.Finished, *p.Target))
		}
	}
	if s == entity.StatusShipped || s == entity.StatusArchived {
		return s, nil
	}
	return entity.StatusReadyToShip, nil
}

// ConfirmShipment 仅 READY_TO_SHIP / SHIPPED 可发货；已归档且已发货的订单重复确认视为幂等
func ConfirmShipment(s Status, alreadyShipped bool) (Status, error) {
	switch s {
	case entity.StatusReadyToShip, entity.StatusShipped:
		return entity.StatusArchived, nil
	case entity.StatusArchived:
		if alreadyShipped {
			return entity.StatusArchived, nil
		}
	}
	return s, errs.NewPreconditionError(fmt.Sprintf("order not ready to ship: status is %s", s))
}

// ForceStatus 管理员直接改状态，绕过流转图；非法值拒绝
func ForceStatus(raw string) (Status, error) {
	s, ok := ParseStatus(raw)
	if !ok {
		return "", errs.NewValidationError(fmt.Sprintf("invalid status %q", raw))
	}
	return s, nil
}
