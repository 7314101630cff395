package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/bitfantasy/ordertrack/internal/order/workflow"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/google/uuid"
)

// ReceiptService 分批入库记录与对账
type ReceiptService struct {
	*base
}

// ReceiptStats 订单明细需求/已收/剩余
type ReceiptStats struct {
	OrderID       string                 `json:"order_id"`
	OrderNo       string                 `json:"order_no"`
	Items         []workflow.ReceiptStat `json:"items"`
	FullyReceived bool                   `json:"fully_received"`
}

// Stats 每次调用重新汇总，在同一事务内读取明细与入库数量
func (s *ReceiptService) Stats(ctx context.Context, id string) (*ReceiptStats, error) {
	var out ReceiptStats
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		o, err := tx.Order.FindByID(ctx, id)
		if err != nil {
			return err
		}
		received, err := tx.Receipt.SumQtyByOrderItem(ctx, id)
		if err != nil {
			return err
		}
		stats := workflow.Reconcile(o.Items, received)
		out = ReceiptStats{
			OrderID:       o.ID,
			OrderNo:       o.OrderNo,
			Items:         stats,
			FullyReceived: workflow.FullyReceived(stats),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLogs 最新的在前，明细附带品名规格
func (s *ReceiptService) ListLogs(ctx context.Context, id string) ([]view.ReceiptLogView, error) {
	var out []view.ReceiptLogView
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		o, err := tx.Order.FindByID(ctx, id)
		if err != nil {
			return err
		}
		logs, err := tx.Receipt.ListLogs(ctx, id)
		if err != nil {
			return err
		}
		out = view.ProjectReceiptLogs(logs, o.Items)
		return nil
	})
	return out, err
}

type ReceiptLogItemInput struct {
	OrderItemID string `json:"order_item_id"`
	Qty         int    `json:"qty"`
}

type ReceiptLogInput struct {
	ReceivedAt *time.Time            `json:"received_at"`
	ReceivedBy string                `json:"received_by"`
	Note       string                `json:"note"`
	Items      []ReceiptLogItemInput `json:"items"`
}

// CreateLog 记录一次实际收货；不改变订单状态，超收不拦截
func (s *ReceiptService) CreateLog(ctx context.Context, actor Actor, id string, in ReceiptLogInput) (_ *view.ReceiptLogView, err error) {
	var o *entity.Order
	defer func() {
		s.record(ctx, actor, audit.ActionWarehouseReceiptLog, target(o, id), err, "")
	}()

	if err := need(actor.Capabilities().CanWarehouseOps, "canWarehouseOps"); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, errs.NewValidationError("items required")
	}

	var out view.ReceiptLogView
	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		owned := make(map[string]struct{}, len(cur.Items))
		for _, it := range cur.Items {
			owned[it.ID] = struct{}{}
		}

		now := s.now()
		log := &entity.WarehouseReceiptLog{
			ID:         uuid.New().String(),
			OrderID:    id,
			ReceivedAt: now,
			ReceivedBy: strings.TrimSpace(in.ReceivedBy),
			Note:       strings.TrimSpace(in.Note),
			CreatedAt:  now,
		}
		if in.ReceivedAt != nil {
			log.ReceivedAt = *in.ReceivedAt
		}
		if log.ReceivedBy == "" {
			log.ReceivedBy = actor.Username
		}

		for _, it := range in.Items {
			itemID := strings.TrimSpace(it.OrderItemID)
			if _, ok := owned[itemID]; !ok {
				return errs.NewNotFoundError("order item", itemID)
			}
			if it.Qty <= 0 {
				return errs.NewValidationError(fmt.Sprintf("qty must be > 0: %s", itemID))
			}
			log.Items = append(log.Items, entity.WarehouseReceiptLogItem{
				ID:          uuid.New().String(),
				LogID:       log.ID,
				OrderItemID: itemID,
				Qty:         it.Qty,
			})
		}

		if err := tx.Receipt.CreateLog(ctx, log); err != nil {
			return err
		}
		out = view.ProjectReceiptLogs([]entity.WarehouseReceiptLog{*log}, cur.Items)[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(o, audit.ActionWarehouseReceiptLog)
	return &out, nil
}
