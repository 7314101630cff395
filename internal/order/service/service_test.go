package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/sse"
	"github.com/bitfantasy/ordertrack/internal/order/testutil"
	"github.com/bitfantasy/ordertrack/internal/order/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	svc   *Services
	sink  *audit.MemorySink
	hub   *sse.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	sink := &audit.MemorySink{}
	hub := sse.NewHub(nil)
	svc := NewServices(repos, Options{Audit: sink, Hub: hub})

	// 单调时钟，保证按创建时间排序稳定
	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.Order.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	return &fixture{
		db:    db,
		repos: repos,
		svc:   svc,
		sink:  sink,
		hub:   hub,
	}
}

func actorFor(role policy.Role) Actor {
	return Actor{Username: strings.ToLower(role.String()), Role: role, IP: "127.0.0.1"}
}

var (
	gm         = actorFor(policy.RoleGM)
	sales      = actorFor(policy.RoleSales)
	pmc        = actorFor(policy.RolePMC)
	production = actorFor(policy.RoleProduction)
	warehouse  = actorFor(policy.RoleWarehouse)
	guest      = actorFor(policy.RoleGuest)
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// createOrder 以 GM 身份建单，每个数量一行明细
func (f *fixture) createOrder(t *testing.T, orderNo string, quantities ...int) *view.OrderView {
	t.Helper()
	items := make([]ItemInput, 0, len(quantities))
	for i, q := range quantities {
		items = append(items, ItemInput{ProductName: "Item " + string(rune('A'+i)), Quantity: intPtr(q), UnitPrice: decPtr("9.99")})
	}
	v, err := f.svc.Order.Create(context.Background(), gm, OrderInput{
		OrderNo:      orderNo,
		CustomerName: strPtr("ACME"),
		Currency:     strPtr("USD"),
		TotalAmount:  decPtr("100"),
		Items:        &items,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) status(t *testing.T, id string) entity.OrderStatus {
	t.Helper()
	o, err := f.repos.Order.FindByID(context.Background(), id)
	require.NoError(t, err)
	return o.Status
}

// finishProcesses 建立已完成的工序，使订单可以入库
func (f *fixture) finishProcesses(t *testing.T, id string) {
	t.Helper()
	_, err := f.svc.Workflow.ReplaceProcesses(context.Background(), production, id, []ProcessInput{
		{ProcessName: "Assembly", TargetQuantity: intPtr(5), FinishedQuantity: intPtr(5)},
	})
	require.NoError(t, err)
}
