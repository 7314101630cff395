package handler

import (
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/gin-gonic/gin"
)

// WorkflowHandler 生产计划、物料、工序、入库与发货
type WorkflowHandler struct {
	*actorSource
	svc *service.WorkflowService
}

func (h *WorkflowHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, plan)
}

func (h *WorkflowHandler) UpsertPlan(c *gin.Context) {
	var req service.PlanInput
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.svc.UpsertPlan(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, plan)
}

func (h *WorkflowHandler) GetMaterials(c *gin.Context) {
	materials, err := h.svc.GetMaterials(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if materials == nil {
		materials = []entity.MaterialAssessment{}
	}
	Success(c, gin.H{"items": materials})
}

// MaterialsRequest 物料评估整体替换
type MaterialsRequest struct {
	Materials []service.MaterialInput `json:"materials"`
}

func (h *WorkflowHandler) ReplaceMaterials(c *gin.Context) {
	var req MaterialsRequest
	if !bindJSON(c, &req) {
		return
	}
	materials, err := h.svc.ReplaceMaterials(c.Request.Context(), h.actor(c), c.Param("id"), req.Materials)
	if err != nil {
		respondError(c, err)
		return
	}
	if materials == nil {
		materials = []entity.MaterialAssessment{}
	}
	Success(c, gin.H{"items": materials})
}

func (h *WorkflowHandler) GetProcesses(c *gin.Context) {
	processes, err := h.svc.GetProcesses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if processes == nil {
		processes = []entity.OrderProcess{}
	}
	Success(c, gin.H{"items": processes})
}

// ProcessesRequest 工序整体替换
type ProcessesRequest struct {
	Processes []service.ProcessInput `json:"processes"`
}

func (h *WorkflowHandler) ReplaceProcesses(c *gin.Context) {
	var req ProcessesRequest
	if !bindJSON(c, &req) {
		return
	}
	processes, err := h.svc.ReplaceProcesses(c.Request.Context(), h.actor(c), c.Param("id"), req.Processes)
	if err != nil {
		respondError(c, err)
		return
	}
	if processes == nil {
		processes = []entity.OrderProcess{}
	}
	Success(c, gin.H{"items": processes})
}

// ConfirmReceipt 确认整单入库
// POST /api/v1/orders/:id/warehouse-receipt
func (h *WorkflowHandler) ConfirmReceipt(c *gin.Context) {
	var req service.ReceiptConfirmInput
	if !bindOptionalJSON(c, &req) {
		return
	}
	receipt, err := h.svc.ConfirmWarehouseReceipt(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, receipt)
}

func (h *WorkflowHandler) SetShipmentPlan(c *gin.Context) {
	var req service.ShipmentPlanInput
	if !bindJSON(c, &req) {
		return
	}
	shipment, err := h.svc.SetShipmentPlan(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, shipment)
}

// ConfirmShipment 确认发货，已发货时原样返回
// POST /api/v1/orders/:id/ship
func (h *WorkflowHandler) ConfirmShipment(c *gin.Context) {
	var req service.ShipConfirmInput
	if !bindOptionalJSON(c, &req) {
		return
	}
	shipment, err := h.svc.ConfirmShipment(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, shipment)
}
