// Package view builds the client-facing order representation. Redaction of
// sensitive fields happens in a single pass after every section is assembled.
package view

import (
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/shopspring/decimal"
)

// ItemView 订单明细
type ItemView struct {
	ID          string           `json:"id"`
	LineNo      int              `json:"line_no"`
	ProductName string           `json:"product_name"`
	Spec        *string          `json:"spec"`
	Quantity    *int             `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Notes       *string          `json:"notes"`
}

// OrderView 订单视图，工作流各部分按需填充
type OrderView struct {
	ID           string             `json:"id"`
	OrderNo      string             `json:"order_no"`
	CustomerName *string            `json:"customer_name"`
	Contact      *string            `json:"contact"`
	Currency     *string            `json:"currency"`
	PaymentTerms *string            `json:"payment_terms"`
	TotalAmount  *decimal.Decimal   `json:"total_amount"`
	ProductReq   *string            `json:"product_req"`
	PackagingReq *string            `json:"packaging_req"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Items        []ItemView         `json:"items"`

	ProductionPlan   *entity.ProductionPlan      `json:"production_plan,omitempty"`
	Materials        []entity.MaterialAssessment `json:"materials,omitempty"`
	Processes        []entity.OrderProcess       `json:"processes,omitempty"`
	WarehouseReceipt *entity.WarehouseReceipt    `json:"warehouse_receipt,omitempty"`
	Shipment         *entity.Shipment            `json:"shipment,omitempty"`
}

// Workflow 订单的工作流子实体，任一部分都可能不存在
type Workflow struct {
	Plan      *entity.ProductionPlan
	Materials []entity.MaterialAssessment
	Processes []entity.OrderProcess
	Receipt   *entity.WarehouseReceipt
	Shipment  *entity.Shipment
}

// Project 组装视图后按能力脱敏；wf 为 nil 时不含工作流部分
func Project(o *entity.Order, wf *Workflow, caps policy.Capabilities) OrderView {
	v := OrderView{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		CustomerName: o.CustomerName,
		Contact:      o.Contact,
		Currency:     o.Currency,
		PaymentTerms: o.PaymentTerms,
		TotalAmount:  o.TotalAmount,
		ProductReq:   o.ProductReq,
		PackagingReq: o.PackagingReq,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        make([]ItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, ItemView{
			ID:          it.ID,
			LineNo:      it.LineNo,
			ProductName: it.ProductName,
			Spec:        it.Spec,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Notes:       it.Notes,
		})
	}
	if wf != nil {
		v.ProductionPlan = wf.Plan
		v.Materials = wf.Materials
		v.Processes = wf.Processes
		v.WarehouseReceipt = wf.Receipt
		v.Shipment = wf.Shipment
	}
	Redact(&v, caps)
	return v
}

// ProjectList 列表视图，不含工作流
func ProjectList(orders []entity.Order, caps policy.Capabilities) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, Project(&orders[i], nil, caps))
	}
	return out
}

// Redact 敏感字段清单只在这里维护
func Redact(v *OrderView, caps policy.Capabilities) {
	if caps.CanSeeSensitive {
		return
	}
	v.Currency = nil
	v.CustomerName = nil
	v.Contact = nil
	v.PaymentTerms = nil
	v.TotalAmount = nil
	for i := range v.Items {
		v.Items[i].UnitPrice = nil
	}
}
