package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// StockCardLine fila del kardex: el movimiento y el saldo resultante.
type StockCardLine struct {
	Movement *entity.StockMovement
	Balance  int64
}

// StockCardUseCase arma el kardex (libro del producto con saldo corrido) y lo exporta a PDF.
type StockCardUseCase struct {
	productRepo repository.ProductRepository
	ledger      repository.MovementLedger
	pdf         StockCardPDFGenerator
	now         Clock
}

// NewStockCardUseCase construye el caso de uso.
func NewStockCardUseCase(productRepo repository.ProductRepository, ledger repository.MovementLedger, pdf StockCardPDFGenerator) *StockCardUseCase {
	return &StockCardUseCase{productRepo: productRepo, ledger: ledger, pdf: pdf, now: time.Now}
}

// Lines devuelve el producto y las filas del kardex en orden de creación.
func (uc *StockCardUseCase) Lines(ctx context.Context, productID string) (*entity.Product, []StockCardLine, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, surface("obtener producto", err)
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	movements, err := uc.ledger.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, surface("listar movimientos por producto", err)
	}
	lines := make([]StockCardLine, 0, len(movements))
	var balance int64
	for _, m := range movements {
		balance = inventory.Step(balance, m.Kind, m.Quantity)
		lines = append(lines, StockCardLine{Movement: m, Balance: balance})
	}
	return product, lines, nil
}

// GeneratePDF devuelve el PDF del kardex y el nombre de archivo sugerido.
func (uc *StockCardUseCase) GeneratePDF(ctx context.Context, productID string) ([]byte, string, error) {
	product, lines, err := uc.Lines(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	b, err := uc.pdf.Generate(product, lines, now)
	if err != nil {
		return nil, "", fmt.Errorf("generar kardex: %w", err)
	}
	return b, fmt.Sprintf("kardex-%s-%s.pdf", fileSafe(product.SKU), now.Format("20060102")), nil
}

// fileSafe deja solo letras y dígitos ASCII, punto, guion y guion bajo; el resto pasa a "_".
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
