package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	ledger := memory.NewLedger(store)
	engine := inventory.NewMovementEngine(memory.NewTxRunner(store), ledger, inventory.ContextActorResolver{})

	require.NoError(t, products.Create(ctx, &entity.Product{ID: "a", SKU: "A-1", Name: "Cable", Price: decimal.NewFromInt(100), Status: entity.ProductStatusActive}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "b", SKU: "B-1", Name: "Tornillo", Price: decimal.RequireFromString("2.5"), ReorderLevel: 5, Status: entity.ProductStatusActive}))

	at := func(s string) *time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return &ts
	}
	for _, in := range []inventory.ApplyMovementInput{
		{ProductID: "a", Kind: entity.MovementADJUSTMENT, Quantity: 10, MovementDate: at("2024-06-01T08:00:00Z")},
		{ProductID: "b", Kind: entity.MovementIN, Quantity: 4, MovementDate: at("2024-05-20T08:00:00Z")},
		{ProductID: "b", Kind: entity.MovementRETURN, Quantity: 1, MovementDate: at("2024-06-10T08:00:00Z")},
		{ProductID: "a", Kind: entity.MovementOUT, Quantity: 3, MovementDate: at("2024-06-15T10:00:00Z")},
		{ProductID: "b", Kind: entity.MovementOUT, Quantity: 1, MovementDate: at("2024-06-15T11:00:00Z")},
	} {
		_, err := engine.Apply(ctx, in)
		require.NoError(t, err)
	}

	uc := NewDashboardUseCase(products, ledger)
	uc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	got, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Today.Movements)
	assert.Equal(t, int64(0), got.Today.UnitsIn)
	assert.Equal(t, int64(4), got.Today.UnitsOut)

	assert.Equal(t, 4, got.Month.Movements, "el IN de mayo queda fuera del mes")
	assert.Equal(t, int64(1), got.Month.UnitsIn)
	assert.Equal(t, int64(4), got.Month.UnitsOut)
	assert.Equal(t, 1, got.Month.Adjustments)

	assert.True(t, decimal.NewFromInt(710).Equal(got.StockValue), "100*7 + 2.5*4, got %s", got.StockValue)
	assert.Equal(t, 2, got.ProductCount)
	assert.Equal(t, 1, got.LowStockCount)
	require.Len(t, got.TopSKUs, 2)
	assert.Equal(t, "A-1", got.TopSKUs[0].SKU)
	assert.Equal(t, int64(3), got.TopSKUs[0].UnitsOut)
	assert.Equal(t, "Junio 2024", got.DateLabel)
}

func TestTopSKUs_LimitaYDesempata(t *testing.T) {
	products := map[string]*entity.Product{
		"x": {SKU: "X"}, "y": {SKU: "Y"}, "z": {SKU: "Z"},
	}
	list := []*entity.StockMovement{
		{ProductID: "y", Kind: entity.MovementOUT, Quantity: 2},
		{ProductID: "x", Kind: entity.MovementOUT, Quantity: 2},
		{ProductID: "z", Kind: entity.MovementOUT, Quantity: 1},
		{ProductID: "z", Kind: entity.MovementIN, Quantity: 50},
		{ProductID: "borrado", Kind: entity.MovementOUT, Quantity: 9},
	}
	got := topSKUs(list, products, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "X", got[0].SKU)
	assert.Equal(t, "Y", got[1].SKU)
}
