package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/bitfantasy/ordertrack/internal/middleware"
	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/bitfantasy/ordertrack/internal/order/service"
	"github.com/bitfantasy/ordertrack/internal/order/sse"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/gin-gonic/gin"
)

// 默认上传上限 10MB
const defaultMaxUpload = 10 << 20

// Handlers 处理器集合
type Handlers struct {
	Order    *OrderHandler
	Workflow *WorkflowHandler
	Receipt  *ReceiptHandler
	Import   *ImportHandler
	SSE      *SSEHandler
}

// Options 处理器配置
type Options struct {
	Resolver       *policy.Resolver
	MaxUploadBytes int64
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *sse.Hub, opts Options) *Handlers {
	a := &actorSource{resolver: opts.Resolver}
	if a.resolver == nil {
		a.resolver = policy.NewResolver("")
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Handlers{
		Order:    &OrderHandler{actorSource: a, svc: svc.Order},
		Workflow: &WorkflowHandler{actorSource: a, svc: svc.Workflow},
		Receipt:  &ReceiptHandler{actorSource: a, svc: svc.Receipt},
		Import:   &ImportHandler{actorSource: a, svc: svc.Import, maxUpload: maxUpload},
		SSE:      NewSSEHandler(hub),
	}
}

// RegisterRoutes 注册订单路由，静态路径先于 /:id
func (h *Handlers) RegisterRoutes(g *gin.RouterGroup) {
	orders := g.Group("/orders")

	orders.POST("/import/file", h.Import.ImportFile)
	orders.POST("/import/text", h.Import.ImportText)
	orders.GET("/import/template", h.Import.Template)
	orders.GET("/events", h.SSE.Stream)

	orders.GET("", h.Order.List)
	orders.POST("", h.Order.Create)
	orders.GET("/:id", h.Order.Get)
	orders.PUT("/:id", h.Order.Update)
	orders.DELETE("/:id", h.Order.Delete)
	orders.POST("/:id/status", h.Order.ForceStatus)

	orders.GET("/:id/plan", h.Workflow.GetPlan)
	orders.PUT("/:id/plan", h.Workflow.UpsertPlan)
	orders.GET("/:id/materials", h.Workflow.GetMaterials)
	orders.PUT("/:id/materials", h.Workflow.ReplaceMaterials)
	orders.GET("/:id/processes", h.Workflow.GetProcesses)
	orders.PUT("/:id/processes", h.Workflow.ReplaceProcesses)
	orders.POST("/:id/warehouse-receipt", h.Workflow.ConfirmReceipt)
	orders.PUT("/:id/shipment-plan", h.Workflow.SetShipmentPlan)
	orders.POST("/:id/ship", h.Workflow.ConfirmShipment)

	orders.GET("/:id/warehouse-receipt-stats", h.Receipt.Stats)
	orders.GET("/:id/warehouse-receipts", h.Receipt.ListLogs)
	orders.POST("/:id/warehouse-receipts", h.Receipt.CreateLog)
}

// Response 通用响应结构
type Response struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Details    []string    `json:"details,omitempty"`
	Duplicates []string    `json:"duplicates,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	abort(c, Response{Code: code, Message: message})
}

func abort(c *gin.Context, resp Response) {
	statusCode := resp.Code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(statusCode, resp)
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondError 业务错误统一映射为 HTTP 响应
func respondError(c *gin.Context, err error) {
	var (
		validation   *errs.ValidationError
		notFound     *errs.NotFoundError
		forbidden    *errs.ForbiddenError
		conflict     *errs.ConflictError
		precondition *errs.PreconditionError
	)
	switch {
	case errors.As(err, &validation):
		abort(c, Response{Code: 40000, Message: validation.Message, Details: validation.Details})
	case errors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case errors.As(err, &forbidden):
		Error(c, 40300, forbidden.Error())
	case errors.As(err, &conflict):
		abort(c, Response{Code: 40900, Message: conflict.Message, Duplicates: conflict.Keys})
	case errors.As(err, &precondition):
		Error(c, 40010, precondition.Condition)
	default:
		c.Error(err)
		InternalError(c, "internal error")
	}
}

// bindJSON 解析失败时已写入 400 响应
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON 空请求体视为零值
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type actorSource struct {
	resolver *policy.Resolver
}

// actor 由中间件写入的角色标签与用户名构造调用方
func (a *actorSource) actor(c *gin.Context) service.Actor {
	return service.Actor{
		Username: middleware.GetUsername(c),
		Role:     a.resolver.Resolve(middleware.GetRoleTag(c)),
		IP:       audit.ClientIP(c.Request),
	}
}
