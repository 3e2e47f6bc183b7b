package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

func TestGenerate_KardexPDF(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	product := &entity.Product{
		ID: "p1", SKU: "TEC-001", Name: "Teclado", Price: decimal.NewFromInt(45000),
		Quantity: 3, ReorderLevel: 5, Status: entity.ProductStatusActive,
	}
	lines := []inventory.StockCardLine{
		{Movement: &entity.StockMovement{ID: 1, Kind: entity.MovementADJUSTMENT, Quantity: 10, Reason: "Saldo inicial", MovementDate: now}, Balance: 10},
		{Movement: &entity.StockMovement{ID: 2, Kind: entity.MovementOUT, Quantity: 8, PerformedBy: "user-1", MovementDate: now}, Balance: 2},
		{Movement: &entity.StockMovement{ID: 3, Kind: entity.MovementRETURN, Quantity: 1, MovementDate: now}, Balance: 3},
	}

	b, err := NewMarotoStockCardGenerator().Generate(product, lines, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerate_SinMovimientos(t *testing.T) {
	b, err := NewMarotoStockCardGenerator().Generate(&entity.Product{ID: "p1", SKU: "X"}, nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
}

func TestTableRows_AjusteComoDiferencia(t *testing.T) {
	assert.Equal(t, "Ajuste (=4)", kindLabel(&entity.StockMovement{Kind: entity.MovementADJUSTMENT, Quantity: 4}))
	assert.Equal(t, "Salida", kindLabel(&entity.StockMovement{Kind: entity.MovementOUT}))
	assert.Len(t, tableRows([]inventory.StockCardLine{
		{Movement: &entity.StockMovement{Kind: entity.MovementIN, Quantity: 2}, Balance: 2},
	}), 1)
}
