package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/order/testutil"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLog(t *testing.T, repos *repository.Repositories, orderID, logID string, at time.Time, qty map[string]int) {
	t.Helper()
	log := &entity.WarehouseReceiptLog{ID: logID, OrderID: orderID, ReceivedAt: at, CreatedAt: at}
	for itemID, q := range qty {
		log.Items = append(log.Items, entity.WarehouseReceiptLogItem{
			ID:          logID + "-" + itemID,
			LogID:       logID,
			OrderItemID: itemID,
			Qty:         q,
		})
	}
	require.NoError(t, repos.Receipt.CreateLog(context.Background(), log))
}

func TestOrderRepository_FindAndConflict(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	testutil.SeedOrder(t, db, "SO-1", entity.StatusDraft, 5, 3)

	o, err := repos.Order.FindByID(ctx, "order-SO-1")
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].LineNo)

	_, err = repos.Order.FindByID(ctx, "nope")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	dup := &entity.Order{ID: "other", OrderNo: "SO-1", Status: entity.StatusDraft}
	err = repos.Order.Create(ctx, dup)
	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"SO-1"}, conflict.Keys)

	exists, err := repos.Order.ExistsByOrderNo(ctx, "SO-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	testutil.SeedOrder(t, db, "SO-1", entity.StatusDraft)

	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Order.BatchCreate(ctx, []entity.Order{
			{ID: "a", OrderNo: "SO-2", Status: entity.StatusDraft},
			{ID: "b", OrderNo: "SO-1", Status: entity.StatusDraft},
		})
	})
	assert.True(t, errors.Is(err, errs.ErrConflict))

	n, err := repos.Order.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReceiptRepository_SumAndOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	testutil.SeedOrder(t, db, "SO-1", entity.StatusInProduction, 10, 4)
	testutil.SeedOrder(t, db, "SO-2", entity.StatusInProduction, 10)

	has, err := repos.Receipt.HasLogs(ctx, "order-SO-1")
	require.NoError(t, err)
	assert.False(t, has)

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	addLog(t, repos, "order-SO-1", "log-1", base, map[string]int{"SO-1-item-1": 4})
	addLog(t, repos, "order-SO-1", "log-2", base.Add(time.Hour), map[string]int{"SO-1-item-1": 3, "SO-1-item-2": 4})
	addLog(t, repos, "order-SO-2", "log-3", base, map[string]int{"SO-2-item-1": 9})

	sums, err := repos.Receipt.SumQtyByOrderItem(ctx, "order-SO-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SO-1-item-1": 7, "SO-1-item-2": 4}, sums)

	logs, err := repos.Receipt.ListLogs(ctx, "order-SO-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "log-2", logs[0].ID)
	assert.Len(t, logs[0].Items, 2)
}

func TestOrderRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	testutil.SeedOrder(t, db, "SO-1", entity.StatusReadyToShip, 2)
	testutil.SeedOrder(t, db, "SO-2", entity.StatusDraft, 1)

	now := time.Now()
	require.NoError(t, repos.Workflow.SavePlan(ctx, &entity.ProductionPlan{ID: "plan-1", OrderID: "order-SO-1", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Workflow.ReplaceProcesses(ctx, "order-SO-1", []entity.OrderProcess{
		{ID: "p-1", OrderID: "order-SO-1", Seq: 1, ProcessName: "Cut", CreatedAt: now, UpdatedAt: now},
	}))
	require.NoError(t, repos.Workflow.SaveShipment(ctx, &entity.Shipment{ID: "s-1", OrderID: "order-SO-1", CreatedAt: now, UpdatedAt: now}))
	addLog(t, repos, "order-SO-1", "log-1", now, map[string]int{"SO-1-item-1": 2})

	require.NoError(t, repos.Order.Delete(ctx, "order-SO-1"))

	for _, model := range []interface{}{
		&entity.OrderItem{}, &entity.ProductionPlan{}, &entity.OrderProcess{},
		&entity.Shipment{}, &entity.WarehouseReceiptLog{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Where("order_id = ?", "order-SO-1").Count(&n).Error)
		assert.Zero(t, n, "%T rows left", model)
	}
	var logItems int64
	require.NoError(t, db.Model(&entity.WarehouseReceiptLogItem{}).Count(&logItems).Error)
	assert.Zero(t, logItems)

	other, err := repos.Order.FindByID(ctx, "order-SO-2")
	require.NoError(t, err)
	assert.Len(t, other.Items, 1)

	plan, err := repos.Workflow.FindPlan(ctx, "order-SO-1")
	require.NoError(t, err)
	assert.Nil(t, plan)
}
