package importer

import (
	"sort"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/google/uuid"
)

// Group 同一订单号的行，保持首次出现顺序
type Group struct {
	OrderNo string
	Records []Record
}

// ItemCount 将生成的明细数
func (g Group) ItemCount() int {
	n := 0
	for _, r := range g.Records {
		if r.HasItem() {
			n++
		}
	}
	return n
}

// Lines 源行号
func (g Group) Lines() []int {
	lines := make([]int, 0, len(g.Records))
	for _, r := range g.Records {
		lines = append(lines, r.Line)
	}
	return lines
}

func GroupRecords(records []Record) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.OrderNo]
		if !ok {
			i = len(groups)
			index[r.OrderNo] = i
			groups = append(groups, Group{OrderNo: r.OrderNo})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// OrderNos 去重后的订单号，已排序
func OrderNos(groups []Group) []string {
	nos := make([]string, 0, len(groups))
	for _, g := range groups {
		nos = append(nos, g.OrderNo)
	}
	sort.Strings(nos)
	return nos
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Materialize 每组生成一个 DRAFT 订单；订单信息取首行，明细按行生成
func Materialize(groups []Group, now time.Time) []entity.Order {
	orders := make([]entity.Order, 0, len(groups))
	for _, g := range groups {
		first := g.Records[0]
		o := entity.Order{
			ID:           uuid.New().String(),
			OrderNo:      g.OrderNo,
			CustomerName: optional(first.CustomerName),
			Contact:      optional(first.CustomerContact),
			Currency:     optional(first.Currency),
			PaymentTerms: optional(first.PaymentTerms),
			TotalAmount:  first.TotalAmount,
			ProductReq:   optional(first.ProductRequirements),
			PackagingReq: optional(first.PackagingRequirements),
			Status:       entity.StatusDraft,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		line := 0
		for _, r := range g.Records {
			if !r.HasItem() {
				continue
			}
			line++
			o.Items = append(o.Items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     o.ID,
				LineNo:      line,
				ProductName: r.ProductName,
				Spec:        optional(r.Spec),
				Quantity:    r.Quantity,
				UnitPrice:   r.UnitPrice,
				Notes:       optional(r.Remark),
				CreatedAt:   now,
			})
		}
		orders = append(orders, o)
	}
	return orders
}
