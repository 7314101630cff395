package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:           "o1",
		OrderNo:      "A1",
		CustomerName: strPtr("ACME"),
		Contact:      strPtr("John"),
		Currency:     strPtr("USD"),
		PaymentTerms: strPtr("T/T"),
		TotalAmount:  decPtr("1250.00"),
		ProductReq:   strPtr("RoHS"),
		PackagingReq: strPtr("Carton"),
		Status:       entity.StatusInProduction,
		Items: []entity.OrderItem{
			{ID: "i1", LineNo: 1, ProductName: "Widget", Quantity: intPtr(10), UnitPrice: decPtr("100")},
			{ID: "i2", LineNo: 2, ProductName: "Gadget", Quantity: intPtr(5), UnitPrice: decPtr("50")},
		},
	}
}

func sampleWorkflow() *Workflow {
	now := time.Now()
	return &Workflow{
		Plan:      &entity.ProductionPlan{ID: "p1", OrderID: "o1", PlannedShipDate: &now},
		Materials: []entity.MaterialAssessment{{ID: "m1", MaterialName: "Steel", ProcurementType: entity.ProcurementInStock}},
		Processes: []entity.OrderProcess{{ID: "pr1", ProcessName: "Cut", TargetQuantity: intPtr(10), FinishedQuantity: 10}},
		Receipt:   &entity.WarehouseReceipt{ID: "w1", OrderID: "o1"},
	}
}

func TestProject_RedactsForRolesWithoutSensitive(t *testing.T) {
	for _, role := range []policy.Role{policy.RolePMC, policy.RoleProduction, policy.RoleWarehouse, policy.RoleGuest} {
		t.Run(role.String(), func(t *testing.T) {
			v := Project(sampleOrder(), sampleWorkflow(), role.Capabilities())

			assert.Nil(t, v.Currency)
			assert.Nil(t, v.CustomerName)
			assert.Nil(t, v.Contact)
			assert.Nil(t, v.PaymentTerms)
			assert.Nil(t, v.TotalAmount)
			for _, it := range v.Items {
				assert.Nil(t, it.UnitPrice)
			}

			// 非敏感字段保留
			assert.Equal(t, "A1", v.OrderNo)
			assert.Equal(t, "RoHS", *v.ProductReq)
			assert.Equal(t, 10, *v.Items[0].Quantity)
			assert.NotNil(t, v.ProductionPlan)
			assert.Len(t, v.Processes, 1)

			raw, err := json.Marshal(v)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "ACME")
			assert.NotContains(t, string(raw), "USD")
			assert.Contains(t, string(raw), `"total_amount":null`)
		})
	}
}

func TestProject_FullForSensitiveRoles(t *testing.T) {
	for _, role := range []policy.Role{policy.RoleGM, policy.RoleSales} {
		v := Project(sampleOrder(), nil, role.Capabilities())
		require.NotNil(t, v.Currency)
		assert.Equal(t, "USD", *v.Currency)
		assert.True(t, v.TotalAmount.Equal(decimal.RequireFromString("1250")))
		assert.True(t, v.Items[1].UnitPrice.Equal(decimal.RequireFromString("50")))
		assert.Nil(t, v.ProductionPlan)
	}
}

func TestProject_DoesNotMutateSource(t *testing.T) {
	o := sampleOrder()
	_ = Project(o, nil, policy.RoleGuest.Capabilities())
	assert.Equal(t, "ACME", *o.CustomerName)
	assert.NotNil(t, o.Items[0].UnitPrice)
}

func TestProject_AbsentSectionsOmitted(t *testing.T) {
	v := Project(sampleOrder(), &Workflow{}, policy.RoleGM.Capabilities())
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "production_plan")
	assert.NotContains(t, string(raw), "shipment")
}

func TestProjectList(t *testing.T) {
	list := ProjectList([]entity.Order{*sampleOrder(), *sampleOrder()}, policy.RoleWarehouse.Capabilities())
	require.Len(t, list, 2)
	assert.Nil(t, list[1].CustomerName)
}

func TestProjectReceiptLogs(t *testing.T) {
	o := sampleOrder()
	logs := []entity.WarehouseReceiptLog{{
		ID:      "l1",
		OrderID: "o1",
		Items: []entity.WarehouseReceiptLogItem{
			{ID: "li1", OrderItemID: "i2", Qty: 3},
			{ID: "li2", OrderItemID: "gone", Qty: 1},
		},
	}}

	out := ProjectReceiptLogs(logs, o.Items)
	require.Len(t, out, 1)
	require.Len(t, out[0].Items, 2)
	assert.Equal(t, "Gadget", out[0].Items[0].ProductName)
	assert.Equal(t, 3, out[0].Items[0].Qty)
	assert.Equal(t, "", out[0].Items[1].ProductName)
}
