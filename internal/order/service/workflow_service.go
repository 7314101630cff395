package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/workflow"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/google/uuid"
)

// WorkflowService 生产计划、物料、工序、整单入库与发货
type WorkflowService struct {
	*base
}

// 工作流事件动作（非审计动作）
const (
	eventPlanUpdated      = "PLAN_UPDATED"
	eventMaterialsUpdated = "MATERIALS_UPDATED"
	eventProcessesUpdated = "PROCESSES_UPDATED"
	eventShipmentPlanned  = "SHIPMENT_PLANNED"
)

// ===== 生产计划 =====

type PlanInput struct {
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	PlannedShipDate  *time.Time `json:"planned_ship_date"`
	Note             string     `json:"note"`
}

// ensureOrder 读操作前确认订单存在
func (s *WorkflowService) ensureOrder(ctx context.Context, id string) error {
	_, err := s.repos.Order.FindByID(ctx, id)
	return err
}

// GetPlan 无计划时返回 nil
func (s *WorkflowService) GetPlan(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	if err := s.ensureOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Workflow.FindPlan(ctx, id)
}

// UpsertPlan 存在则更新，否则新建；DRAFT 订单进入生产
func (s *WorkflowService) UpsertPlan(ctx context.Context, actor Actor, id string, in PlanInput) (*entity.ProductionPlan, error) {
	if err := need(actor.Capabilities().CanManageProductionPlan, "canManageProductionPlan"); err != nil {
		return nil, err
	}
	if in.PlannedStartDate != nil && in.PlannedEndDate != nil && in.PlannedEndDate.Before(*in.PlannedStartDate) {
		return nil, errs.NewValidationError("planned_end_date must not be before planned_start_date")
	}

	var (
		o    *entity.Order
		plan *entity.ProductionPlan
	)
	err := s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		var err error
		if plan, err = tx.Workflow.FindPlan(ctx, id); err != nil {
			return err
		}
		now := s.now()
		if plan == nil {
			plan = &entity.ProductionPlan{ID: uuid.New().String(), OrderID: id, CreatedAt: now}
		}
		plan.PlannedStartDate = in.PlannedStartDate
		plan.PlannedEndDate = in.PlannedEndDate
		plan.PlannedShipDate = in.PlannedShipDate
		plan.Note = strings.TrimSpace(in.Note)
		plan.UpdatedAt = now
		if err := tx.Workflow.SavePlan(ctx, plan); err != nil {
			return err
		}
		return s.advance(ctx, tx, cur, workflow.OnWorkflowEdit(cur.Status))
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, eventPlanUpdated)
	return plan, nil
}

// ===== 物料评估 =====

type MaterialInput struct {
	MaterialName    string `json:"material_name"`
	ProcurementType string `json:"procurement_type"`
	Note            string `json:"note"`
}

func (s *WorkflowService) GetMaterials(ctx context.Context, id string) ([]entity.MaterialAssessment, error) {
	if err := s.ensureOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Workflow.ListMaterials(ctx, id)
}

func normalizeProcurementType(raw string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	switch t {
	case "", entity.ProcurementExternalPurchase, entity.ProcurementInStock:
		return t, true
	}
	return "", false
}

// ReplaceMaterials 整体替换物料评估列表
func (s *WorkflowService) ReplaceMaterials(ctx context.Context, actor Actor, id string, in []MaterialInput) ([]entity.MaterialAssessment, error) {
	if err := need(actor.Capabilities().CanManageProductionPlan, "canManageProductionPlan"); err != nil {
		return nil, err
	}

	now := s.now()
	list := make([]entity.MaterialAssessment, 0, len(in))
	var problems []string
	for i, m := range in {
		name := strings.TrimSpace(m.MaterialName)
		if name == "" {
			problems = append(problems, fmt.Sprintf("materials[%d].material_name is required", i))
		}
		pt, ok := normalizeProcurementType(m.ProcurementType)
		if !ok {
			problems = append(problems, fmt.Sprintf("materials[%d].procurement_type must be %s or %s",
				i, entity.ProcurementExternalPurchase, entity.ProcurementInStock))
		}
		list = append(list, entity.MaterialAssessment{
			ID:              uuid.New().String(),
			OrderID:         id,
			Seq:             i + 1,
			MaterialName:    name,
			ProcurementType: pt,
			Note:            strings.TrimSpace(m.Note),
			CreatedAt:       now,
		})
	}
	if len(problems) > 0 {
		return nil, errs.NewValidationError("invalid materials", problems...)
	}

	var o *entity.Order
	err := s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		if err := tx.Workflow.ReplaceMaterials(ctx, id, list); err != nil {
			return err
		}
		return s.advance(ctx, tx, cur, workflow.OnWorkflowEdit(cur.Status))
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, eventMaterialsUpdated)
	return list, nil
}

// ===== 工序 =====

type ProcessInput struct {
	ProcessName      string `json:"process_name"`
	TargetQuantity   *int   `json:"target_quantity"`
	FinishedQuantity *int   `json:"finished_quantity"`
	Note             string `json:"note"`
}

func (s *WorkflowService) GetProcesses(ctx context.Context, id string) ([]entity.OrderProcess, error) {
	if err := s.ensureOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Workflow.ListProcesses(ctx, id)
}

// ReplaceProcesses 整体替换工序；完成数量缺省为0，负数按0处理
func (s *WorkflowService) ReplaceProcesses(ctx context.Context, actor Actor, id string, in []ProcessInput) ([]entity.OrderProcess, error) {
	caps := actor.Capabilities()
	if err := need(caps.CanUpdateProcessProgress || caps.CanManageProductionPlan, "canUpdateProcessProgress"); err != nil {
		return nil, err
	}

	now := s.now()
	list := make([]entity.OrderProcess, 0, len(in))
	var problems []string
	for i, p := range in {
		name := strings.TrimSpace(p.ProcessName)
		if name == "" {
			problems = append(problems, fmt.Sprintf("processes[%d].process_name is required", i))
		}
		if p.TargetQuantity != nil && *p.TargetQuantity < 0 {
			problems = append(problems, fmt.Sprintf("processes[%d].target_quantity must be >= 0", i))
		}
		finished := 0
		if p.FinishedQuantity != nil {
			finished = max(0, *p.FinishedQuantity)
		}
		list = append(list, entity.OrderProcess{
			ID:               uuid.New().String(),
			OrderID:          id,
			Seq:              i + 1,
			ProcessName:      name,
			TargetQuantity:   p.TargetQuantity,
			FinishedQuantity: finished,
			Note:             strings.TrimSpace(p.Note),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	if len(problems) > 0 {
		return nil, errs.NewValidationError("invalid processes", problems...)
	}

	var o *entity.Order
	err := s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		if err := tx.Workflow.ReplaceProcesses(ctx, id, list); err != nil {
			return err
		}
		return s.advance(ctx, tx, cur, workflow.OnWorkflowEdit(cur.Status))
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, eventProcessesUpdated)
	return list, nil
}

// ===== 整单入库 =====

type ReceiptConfirmInput struct {
	ReceivedBy string     `json:"received_by"`
	Note       string     `json:"note"`
	ReceivedAt *time.Time `json:"received_at"`
}

// ConfirmWarehouseReceipt 所有工序完成后确认入库，订单进入 READY_TO_SHIP
func (s *WorkflowService) ConfirmWarehouseReceipt(ctx context.Context, actor Actor, id string, in ReceiptConfirmInput) (_ *entity.WarehouseReceipt, err error) {
	var o *entity.Order
	defer func() {
		s.record(ctx, actor, audit.ActionWarehouseReceiptConfirm, target(o, id), err, "")
	}()

	if err := need(actor.Capabilities().CanWarehouseOps, "canWarehouseOps"); err != nil {
		return nil, err
	}

	var receipt *entity.WarehouseReceipt
	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		processes, err := tx.Workflow.ListProcesses(ctx, id)
		if err != nil {
			return err
		}
		progress := make([]workflow.ProcessProgress, 0, len(processes))
		for _, p := range processes {
			progress = append(progress, workflow.ProcessProgress{
				Name:     p.ProcessName,
				Target:   p.TargetQuantity,
				Finished: p.FinishedQuantity,
			})
		}
		next, err := workflow.ConfirmReceipt(cur.Status, progress)
		if err != nil {
			return err
		}

		if receipt, err = tx.Workflow.FindReceipt(ctx, id); err != nil {
			return err
		}
		now := s.now()
		if receipt == nil {
			receipt = &entity.WarehouseReceipt{ID: uuid.New().String(), OrderID: id, CreatedAt: now}
		}
		receipt.ReceivedBy = strings.TrimSpace(in.ReceivedBy)
		if receipt.ReceivedBy == "" {
			receipt.ReceivedBy = actor.Username
		}
		receipt.Note = strings.TrimSpace(in.Note)
		receipt.ReceivedAt = now
		if in.ReceivedAt != nil {
			receipt.ReceivedAt = *in.ReceivedAt
		}
		receipt.UpdatedAt = now
		if err := tx.Workflow.SaveReceipt(ctx, receipt); err != nil {
			return err
		}
		return s.advance(ctx, tx, cur, next)
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, audit.ActionWarehouseReceiptConfirm)
	return receipt, nil
}

// ===== 发货 =====

type ShipmentPlanInput struct {
	PlannedShipDate *time.Time `json:"planned_ship_date"`
	Note            string     `json:"note"`
}

// SetShipmentPlan 设置计划发货日期，不改变状态
func (s *WorkflowService) SetShipmentPlan(ctx context.Context, actor Actor, id string, in ShipmentPlanInput) (*entity.Shipment, error) {
	if err := need(actor.Capabilities().CanManageShippingPlan, "canManageShippingPlan"); err != nil {
		return nil, err
	}

	var (
		o        *entity.Order
		shipment *entity.Shipment
	)
	err := s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		var err error
		if shipment, err = tx.Workflow.FindShipment(ctx, id); err != nil {
			return err
		}
		now := s.now()
		if shipment == nil {
			shipment = &entity.Shipment{ID: uuid.New().String(), OrderID: id, CreatedAt: now}
		}
		shipment.PlannedShipDate = in.PlannedShipDate
		if note := strings.TrimSpace(in.Note); note != "" {
			shipment.Note = note
		}
		shipment.UpdatedAt = now
		return tx.Workflow.SaveShipment(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, eventShipmentPlanned)
	return shipment, nil
}

type ShipConfirmInput struct {
	ShippedAt *time.Time `json:"shipped_at"`
	Note      string     `json:"note"`
}

// ConfirmShipment 确认发货并归档；已归档订单重复确认直接返回已有发货记录
func (s *WorkflowService) ConfirmShipment(ctx context.Context, actor Actor, id string, in ShipConfirmInput) (_ *entity.Shipment, err error) {
	var o *entity.Order
	defer func() {
		s.record(ctx, actor, audit.ActionShipConfirm, target(o, id), err, "")
	}()

	if err := need(actor.Capabilities().CanWarehouseOps, "canWarehouseOps"); err != nil {
		return nil, err
	}

	var shipment *entity.Shipment
	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		var err error
		if shipment, err = tx.Workflow.FindShipment(ctx, id); err != nil {
			return err
		}
		shipped := shipment != nil && shipment.ShippedAt != nil
		next, err := workflow.ConfirmShipment(cur.Status, shipped)
		if err != nil {
			return err
		}
		if cur.Status == entity.StatusArchived && shipped {
			return nil
		}

		now := s.now()
		if shipment == nil {
			shipment = &entity.Shipment{ID: uuid.New().String(), OrderID: id, CreatedAt: now}
		}
		shippedAt := now
		if in.ShippedAt != nil {
			shippedAt = *in.ShippedAt
		}
		shipment.ShippedAt = &shippedAt
		shipment.ConfirmedBy = actor.Username
		if note := strings.TrimSpace(in.Note); note != "" {
			shipment.Note = note
		}
		shipment.UpdatedAt = now
		if err := tx.Workflow.SaveShipment(ctx, shipment); err != nil {
			return err
		}
		return s.advance(ctx, tx, cur, next)
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, audit.ActionShipConfirm)
	return shipment, nil
}
