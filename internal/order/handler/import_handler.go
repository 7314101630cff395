package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/gin-gonic/gin"
)

const templateFilename = "order_import_template.xlsx"

// ImportHandler 订单批量导入
type ImportHandler struct {
	*actorSource
	svc       *service.ImportService
	maxUpload int64
}

// ImportFile 上传 CSV/XLSX 导入
// POST /api/v1/orders/import/file (multipart: file, dry_run)
func (h *ImportHandler) ImportFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, fmt.Sprintf("please upload a .csv or .xlsx file (max %d MB): %v", h.maxUpload>>20, err))
		return
	}
	defer file.Close()

	dryRun, _ := strconv.ParseBool(c.DefaultPostForm("dry_run", c.Query("dry_run")))
	result, err := h.svc.ImportFile(c.Request.Context(), h.actor(c), header.Filename, file, dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, result)
}

// ImportTextRequest 粘贴文本导入
type ImportTextRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
	DryRun    bool   `json:"dry_run"`
}

// ImportText POST /api/v1/orders/import/text
func (h *ImportHandler) ImportText(c *gin.Context) {
	var req ImportTextRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ImportText(c.Request.Context(), h.actor(c), req.Text, req.Delimiter, req.DryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, result)
}

// Template GET /api/v1/orders/import/template
func (h *ImportHandler) Template(c *gin.Context) {
	f, err := h.svc.Template()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+templateFilename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write template: "+err.Error())
	}
}
