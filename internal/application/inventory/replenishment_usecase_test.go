package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

func TestReplenishment_PriorizaPorSalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range []*entity.Product{
		{ID: "a", SKU: "A", Name: "A", ReorderLevel: 10, Status: entity.ProductStatusActive},
		{ID: "b", SKU: "B", Name: "B", ReorderLevel: 4, Status: entity.ProductStatusActive},
		{ID: "c", SKU: "C", Name: "C", ReorderLevel: 1, Status: entity.ProductStatusActive},
	} {
		require.NoError(t, f.products.Create(ctx, p))
	}
	apply := func(id string, kind entity.MovementKind, qty int64) {
		_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Kind: kind, Quantity: qty})
		require.NoError(t, err)
	}
	apply("a", entity.MovementIN, 12)
	apply("a", entity.MovementOUT, 4) // a: 8, 4 salidas
	apply("b", entity.MovementIN, 10)
	apply("b", entity.MovementOUT, 9) // b: 1, 9 salidas
	apply("c", entity.MovementIN, 5)  // c: 5 > 1, no entra

	list, err := inventory.NewReplenishmentUseCase(f.products, f.ledger).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(9), list[0].UnitsOutLastDays)
	assert.Equal(t, int64(6), list[0].IdealStock)
	assert.Equal(t, int64(5), list[0].SuggestedOrderQty)

	assert.Equal(t, "a", list[1].ProductID)
	assert.Equal(t, int64(15), list[1].IdealStock)
	assert.Equal(t, int64(7), list[1].SuggestedOrderQty)
}
