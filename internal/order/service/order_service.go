package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/bitfantasy/ordertrack/internal/order/workflow"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService struct {
	*base
}

// ItemInput 订单明细
type ItemInput struct {
	ProductName string           `json:"product_name"`
	Spec        *string          `json:"spec"`
	Quantity    *int             `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Notes       *string          `json:"notes"`
}

// OrderInput 新建/修改订单
// 修改时 Items 为 nil 表示不替换明细
type OrderInput struct {
	OrderNo      string           `json:"order_no"`
	CustomerName *string          `json:"customer_name"`
	Contact      *string          `json:"contact"`
	Currency     *string          `json:"currency"`
	PaymentTerms *string          `json:"payment_terms"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
	ProductReq   *string          `json:"product_req"`
	PackagingReq *string          `json:"packaging_req"`
	Items        *[]ItemInput     `json:"items"`
}

func (in OrderInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.OrderNo) == "" {
		problems = append(problems, "order_no is required")
	}
	if in.Items != nil {
		for i, it := range *in.Items {
			if strings.TrimSpace(it.ProductName) == "" {
				problems = append(problems, fmt.Sprintf("items[%d].product_name is required", i))
			}
			if it.Quantity != nil && *it.Quantity < 0 {
				problems = append(problems, fmt.Sprintf("items[%d].quantity must be >= 0", i))
			}
		}
	}
	if len(problems) > 0 {
		return errs.NewValidationError("invalid order", problems...)
	}
	return nil
}

func (in OrderInput) applyBasics(o *entity.Order) {
	o.CustomerName = blankToNil(in.CustomerName)
	o.Contact = blankToNil(in.Contact)
	o.Currency = blankToNil(in.Currency)
	o.PaymentTerms = blankToNil(in.PaymentTerms)
	o.TotalAmount = in.TotalAmount
	o.ProductReq = blankToNil(in.ProductReq)
	o.PackagingReq = blankToNil(in.PackagingReq)
}

func (in OrderInput) buildItems(orderID string, o *entity.Order) []entity.OrderItem {
	if in.Items == nil {
		return nil
	}
	items := make([]entity.OrderItem, 0, len(*in.Items))
	for i, it := range *in.Items {
		qty := 0
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			LineNo:      i + 1,
			ProductName: strings.TrimSpace(it.ProductName),
			Spec:        blankToNil(it.Spec),
			Quantity:    &qty,
			UnitPrice:   it.UnitPrice,
			Notes:       blankToNil(it.Notes),
			CreatedAt:   o.UpdatedAt,
		})
	}
	return items
}

// Create 新建订单，状态为 DRAFT
func (s *OrderService) Create(ctx context.Context, actor Actor, in OrderInput) (_ *view.OrderView, err error) {
	orderNo := strings.TrimSpace(in.OrderNo)
	defer func() {
		s.record(ctx, actor, audit.ActionCreateOrder, orderNo, err, "")
	}()

	if err := need(actor.Capabilities().CanEditOrderBasics, "canEditOrderBasics"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	o := &entity.Order{
		ID:        uuid.New().String(),
		OrderNo:   orderNo,
		Status:    workflow.Initial(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.applyBasics(o)
	o.Items = in.buildItems(o.ID, o)

	exists, err := s.repos.Order.ExistsByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewConflictError("orderNo already exists", orderNo)
	}
	if err := s.repos.Order.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created", zap.String("order_no", o.OrderNo), zap.Int("items", len(o.Items)))
	s.publish(o, audit.ActionCreateOrder)
	v := view.Project(o, nil, actor.Capabilities())
	return &v, nil
}

// Update 修改订单基本信息，可选整体替换明细；已有入库记录时明细不可替换
func (s *OrderService) Update(ctx context.Context, actor Actor, id string, in OrderInput) (_ *view.OrderView, err error) {
	var o *entity.Order
	defer func() {
		s.record(ctx, actor, audit.ActionUpdateOrder, target(o, id), err, "")
	}()

	if err := need(actor.Capabilities().CanEditOrderBasics, "canEditOrderBasics"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		if strings.TrimSpace(in.OrderNo) != cur.OrderNo {
			return errs.NewValidationError("order number cannot be changed",
				fmt.Sprintf("current %s, requested %s", cur.OrderNo, strings.TrimSpace(in.OrderNo)))
		}

		cur.UpdatedAt = s.now()
		in.applyBasics(cur)
		if err := tx.Order.UpdateBasics(ctx, cur); err != nil {
			return err
		}

		if in.Items == nil {
			return nil
		}
		hasLogs, err := tx.Receipt.HasLogs(ctx, cur.ID)
		if err != nil {
			return err
		}
		if hasLogs {
			return errs.NewPreconditionError("items cannot be replaced after warehouse receipt logs exist")
		}
		items := in.buildItems(cur.ID, cur)
		if err := tx.Order.ReplaceItems(ctx, cur.ID, items); err != nil {
			return err
		}
		cur.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(o, audit.ActionUpdateOrder)
	v := view.Project(o, nil, actor.Capabilities())
	return &v, nil
}

// Delete 级联删除，不检查状态
func (s *OrderService) Delete(ctx context.Context, actor Actor, id string) (err error) {
	var o *entity.Order
	defer func() {
		s.record(ctx, actor, audit.ActionDeleteOrder, target(o, id), err, "")
	}()

	if err := need(actor.Capabilities().CanDeleteOrder, "canDeleteOrder"); err != nil {
		return err
	}
	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		return tx.Order.Delete(ctx, cur.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.String("order_no", o.OrderNo))
	s.publish(o, audit.ActionDeleteOrder)
	return nil
}

// Get 订单详情，含工作流各部分
func (s *OrderService) Get(ctx context.Context, actor Actor, id string) (*view.OrderView, error) {
	var v view.OrderView
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		o, err := tx.Order.FindByID(ctx, id)
		if err != nil {
			return err
		}
		wf, err := loadWorkflow(ctx, tx, id)
		if err != nil {
			return err
		}
		v = view.Project(o, wf, actor.Capabilities())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List 按创建时间排序，status 为空时不过滤
func (s *OrderService) List(ctx context.Context, actor Actor, status string) ([]view.OrderView, error) {
	filter := ""
	if strings.TrimSpace(status) != "" {
		st, ok := workflow.ParseStatus(status)
		if !ok {
			return nil, errs.NewValidationError(fmt.Sprintf("invalid status %q", status))
		}
		filter = st.String()
	}
	orders, err := s.repos.Order.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return view.ProjectList(orders, actor.Capabilities()), nil
}

// ForceStatus 管理员直接设置状态
func (s *OrderService) ForceStatus(ctx context.Context, actor Actor, id, status string) (_ *view.OrderView, err error) {
	var (
		o    *entity.Order
		from entity.OrderStatus
	)
	defer func() {
		s.record(ctx, actor, audit.ActionForceStatus, target(o, id), err,
			fmt.Sprintf("%s -> %s", from, strings.ToUpper(strings.TrimSpace(status))))
	}()

	if err := need(actor.Capabilities().CanForceStatus, "canForceStatus"); err != nil {
		return nil, err
	}
	next, err := workflow.ForceStatus(status)
	if err != nil {
		return nil, err
	}

	err = s.mutate(ctx, id, func(tx *repository.Repositories, cur *entity.Order) error {
		o = cur
		from = cur.Status
		return s.advance(ctx, tx, cur, next)
	})
	if err != nil {
		return nil, err
	}

	s.publish(o, audit.ActionForceStatus)
	v := view.Project(o, nil, actor.Capabilities())
	return &v, nil
}
