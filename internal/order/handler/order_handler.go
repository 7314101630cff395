package handler

import (
	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	*actorSource
	svc *service.OrderService
}

// List 订单列表
// GET /api/v1/orders?status=IN_PRODUCTION
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context(), h.actor(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []view.OrderView{}
	}
	Success(c, gin.H{"items": orders, "total": len(orders)})
}

// Create 创建订单
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.OrderInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Create(c.Request.Context(), h.actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, order)
}

// Get 订单详情（含流程数据）
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), h.actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, order)
}

// Update 更新订单基础信息，items 存在时整体替换明细
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.OrderInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Update(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, order)
}

// Delete 删除订单
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), h.actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}

// ForceStatusRequest 强制状态请求
type ForceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ForceStatus 强制设置订单状态
// POST /api/v1/orders/:id/status
func (h *OrderHandler) ForceStatus(c *gin.Context) {
	var req ForceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.ForceStatus(c.Request.Context(), h.actor(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, order)
}
