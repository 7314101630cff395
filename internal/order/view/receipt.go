package view

import (
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
)

// ReceiptLogItemView 入库记录明细，附带订单明细的品名规格
type ReceiptLogItemView struct {
	ID          string  `json:"id"`
	OrderItemID string  `json:"order_item_id"`
	ProductName string  `json:"product_name"`
	Spec        *string `json:"spec"`
	Qty         int     `json:"qty"`
}

type ReceiptLogView struct {
	ID         string               `json:"id"`
	OrderID    string               `json:"order_id"`
	ReceivedAt time.Time            `json:"received_at"`
	ReceivedBy string               `json:"received_by"`
	Note       string               `json:"note"`
	CreatedAt  time.Time            `json:"created_at"`
	Items      []ReceiptLogItemView `json:"items"`
}

// ProjectReceiptLogs 明细已被替换时品名为空
func ProjectReceiptLogs(logs []entity.WarehouseReceiptLog, items []entity.OrderItem) []ReceiptLogView {
	byID := make(map[string]entity.OrderItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]ReceiptLogView, 0, len(logs))
	for _, l := range logs {
		lv := ReceiptLogView{
			ID:         l.ID,
			OrderID:    l.OrderID,
			ReceivedAt: l.ReceivedAt,
			ReceivedBy: l.ReceivedBy,
			Note:       l.Note,
			CreatedAt:  l.CreatedAt,
			Items:      make([]ReceiptLogItemView, 0, len(l.Items)),
		}
		for _, li := range l.Items {
			it := byID[li.OrderItemID]
			lv.Items = append(lv.Items, ReceiptLogItemView{
				ID:          li.ID,
				OrderItemID: li.OrderItemID,
				ProductName: it.ProductName,
				Spec:        it.Spec,
				Qty:         li.Qty,
			})
		}
		out = append(out, lv)
	}
	return out
}
