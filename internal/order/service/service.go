package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/lock"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/sse"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"go.uber.org/zap"
)

// Actor 调用方身份
type Actor struct {
	Username string
	Role     policy.Role
	IP       string
}

func (a Actor) Capabilities() policy.Capabilities {
	return a.Role.Capabilities()
}

// Options 服务依赖，零值字段使用默认实现
type Options struct {
	Locker lock.Locker
	Audit  audit.Sink
	Hub    *sse.Hub
	Logger *zap.Logger
}

// Services 订单跟踪服务集合
type Services struct {
	Order    *OrderService
	Workflow *WorkflowService
	Receipt  *ReceiptService
	Import   *ImportService
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	b := newBase(repos, opts)
	return &Services{
		Order:    &OrderService{base: b},
		Workflow: &WorkflowService{base: b},
		Receipt:  &ReceiptService{base: b},
		Import:   &ImportService{base: b},
	}
}

type base struct {
	repos  *repository.Repositories
	locker lock.Locker
	audit  audit.Sink
	hub    *sse.Hub
	logger *zap.Logger
	now    func() time.Time
}

func newBase(repos *repository.Repositories, opts Options) *base {
	b := &base{
		repos:  repos,
		locker: opts.Locker,
		audit:  opts.Audit,
		hub:    opts.Hub,
		logger: opts.Logger,
		now:    time.Now,
	}
	if b.locker == nil {
		b.locker = lock.NewLocalLocker()
	}
	if b.audit == nil {
		b.audit = audit.NopSink{}
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

func need(ok bool, capability string) error {
	if !ok {
		return errs.NewForbiddenError(capability)
	}
	return nil
}

// mutate 同一订单的写操作：先取订单锁，再在事务内锁定订单行
func (b *base) mutate(ctx context.Context, orderID string, fn func(tx *repository.Repositories, o *entity.Order) error) error {
	unlock, err := b.locker.Lock(ctx, lock.OrderKey(orderID))
	if err != nil {
		return fmt.Errorf("lock order %s: %w", orderID, err)
	}
	defer unlock()

	return b.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		o, err := tx.Order.LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		return fn(tx, o)
	})
}

// advance 状态有变化才写库
func (b *base) advance(ctx context.Context, tx *repository.Repositories, o *entity.Order, next entity.OrderStatus) error {
	if next == o.Status {
		return nil
	}
	if err := tx.Order.UpdateStatus(ctx, o.ID, next); err != nil {
		return err
	}
	b.logger.Info("order status changed",
		zap.String("order_no", o.OrderNo),
		zap.String("from", o.Status.String()),
		zap.String("to", next.String()))
	o.Status = next
	return nil
}

// record 事务提交后调用；审计失败不影响业务结果
func (b *base) record(ctx context.Context, actor Actor, action, target string, err error, details string) {
	e := audit.Entry{
		Username: actor.Username,
		Role:     actor.Role.String(),
		Action:   action,
		Target:   target,
		Success:  err == nil,
		IP:       actor.IP,
		Details:  details,
	}
	if err != nil {
		e.Details = strings.TrimSpace(details + " " + err.Error())
	}
	b.audit.Record(context.WithoutCancel(ctx), e)
}

func (b *base) publish(o *entity.Order, action string) {
	if o == nil {
		return
	}
	b.hub.PublishOrderUpdate(sse.OrderUpdate{
		OrderID: o.ID,
		OrderNo: o.OrderNo,
		Action:  action,
		Status:  o.Status.String(),
	})
}

// loadWorkflow 读取订单全部工作流子实体
func loadWorkflow(ctx context.Context, repos *repository.Repositories, orderID string) (*view.Workflow, error) {
	var (
		wf  view.Workflow
		err error
	)
	if wf.Plan, err = repos.Workflow.FindPlan(ctx, orderID); err != nil {
		return nil, err
	}
	if wf.Materials, err = repos.Workflow.ListMaterials(ctx, orderID); err != nil {
		return nil, err
	}
	if wf.Processes, err = repos.Workflow.ListProcesses(ctx, orderID); err != nil {
		return nil, err
	}
	if wf.Receipt, err = repos.Workflow.FindReceipt(ctx, orderID); err != nil {
		return nil, err
	}
	if wf.Shipment, err = repos.Workflow.FindShipment(ctx, orderID); err != nil {
		return nil, err
	}
	return &wf, nil
}

// target 审计目标：已加载订单用订单号，否则用 id
func target(o *entity.Order, id string) string {
	if o != nil && o.OrderNo != "" {
		return o.OrderNo
	}
	return id
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
