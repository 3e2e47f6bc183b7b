package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

type capturePDF struct {
	product *entity.Product
	lines   []inventory.StockCardLine
}

func (c *capturePDF) Generate(p *entity.Product, lines []inventory.StockCardLine, _ time.Time) ([]byte, error) {
	c.product, c.lines = p, lines
	return []byte("%PDF"), nil
}

func TestStockCard_SaldoCorrido(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)
	ctx := context.Background()
	for _, in := range []inventory.ApplyMovementInput{
		{ProductID: "p1", Kind: entity.MovementIN, Quantity: 3},
		{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 6},
		{ProductID: "p1", Kind: entity.MovementRETURN, Quantity: 1},
		{ProductID: "p1", Kind: entity.MovementADJUSTMENT, Quantity: 10},
	} {
		_, err := f.engine.Apply(ctx, in)
		require.NoError(t, err)
	}

	pdf := &capturePDF{}
	uc := inventory.NewStockCardUseCase(f.products, f.ledger, pdf)
	b, name, err := uc.GeneratePDF(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))
	assert.Contains(t, name, "kardex-SKU-p1-")

	balances := make([]int64, 0, len(pdf.lines))
	for _, l := range pdf.lines {
		balances = append(balances, l.Balance)
	}
	assert.Equal(t, []int64{5, 8, 2, 3, 10}, balances)
	assert.Equal(t, pdf.product.Quantity, balances[len(balances)-1])
}

func TestStockCard_NombreDeArchivoSeguro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "p2", SKU: `A"B; x=1/ñ`, Name: "raro", Status: entity.ProductStatusActive}))

	uc := inventory.NewStockCardUseCase(f.products, f.ledger, &capturePDF{})
	_, name, err := uc.GeneratePDF(ctx, "p2")
	require.NoError(t, err)
	assert.Regexp(t, `^kardex-A_B__x_1__-\d{8}\.pdf$`, name)
}

func TestStockCard_ProductoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, _, err := inventory.NewStockCardUseCase(f.products, f.ledger, &capturePDF{}).GeneratePDF(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
