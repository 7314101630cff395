package handler

import (
	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler 分批入库
type ReceiptHandler struct {
	*actorSource
	svc *service.ReceiptService
}

// Stats 各明细的入库统计
// GET /api/v1/orders/:id/warehouse-receipt-stats
func (h *ReceiptHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, stats)
}

func (h *ReceiptHandler) ListLogs(c *gin.Context) {
	logs, err := h.svc.ListLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []view.ReceiptLogView{}
	}
	Success(c, gin.H{"items": logs})
}

// CreateLog 登记一批入库
// POST /api/v1/orders/:id/warehouse-receipts
func (h *ReceiptHandler) CreateLog(c *gin.Context) {
	var req service.ReceiptLogInput
	if !bindJSON(c, &req) {
		return
	}
	log, err := h.svc.CreateLog(c.Request.Context(), h.actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, log)
}
