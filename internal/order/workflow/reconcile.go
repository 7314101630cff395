package workflow

import "github.com/bitfantasy/ordertrack/internal/order/entity"

// ReceiptStat 单行入库统计
type ReceiptStat struct {
	OrderItemID  string  `json:"order_item_id"`
	ProductName  string  `json:"product_name"`
	Spec         *string `json:"spec"`
	DemandQty    int     `json:"demand_qty"`
	ReceivedQty  int     `json:"received_qty"`
	RemainingQty int     `json:"remaining_qty"`
}

// Reconcile 按订单当前明细汇总已收数量；超收不拦截，剩余量不小于0
func Reconcile(items []entity.OrderItem, received map[string]int) []ReceiptStat {
	stats := make([]ReceiptStat, 0, len(items))
	for _, it := range items {
		demand := it.Demand()
		got := received[it.ID]
		stats = append(stats, ReceiptStat{
			OrderItemID:  it.ID,
			ProductName:  it.ProductName,
			Spec:         it.Spec,
			DemandQty:    demand,
			ReceivedQty:  got,
			RemainingQty: max(0, demand-got),
		})
	}
	return stats
}

// FullyReceived 所有明细剩余量为0
func FullyReceived(stats []ReceiptStat) bool {
	for _, s := range stats {
		if s.RemainingQty > 0 {
			return false
		}
	}
	return true
}
