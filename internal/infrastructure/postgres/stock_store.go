package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.StockStore = (*StockStore)(nil)

// StockStore lee y escribe products.quantity dentro de una tx, restringido al producto de la unidad.
type StockStore struct {
	q         Querier
	productID string
}

// NewStockStore construye el store. q debe ser una pgx.Tx para que el bloqueo de fila tenga efecto.
func NewStockStore(q Querier, productID string) *StockStore {
	return &StockStore{q: q, productID: productID}
}

func (s *StockStore) check(productID string) error {
	if productID != s.productID {
		return domain.Invalid("la unidad atómica es del producto %s, no de %s", s.productID, productID)
	}
	return nil
}

// GetQuantity bloquea la fila del producto (SELECT ... FOR UPDATE) hasta el fin de la tx.
func (s *StockStore) GetQuantity(ctx context.Context, productID string) (int64, error) {
	if err := s.check(productID); err != nil {
		return 0, err
	}
	if !validID(productID) {
		return 0, domain.ErrNotFound
	}
	var qty int64
	err := s.q.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, mapError("lock product stock", err)
	}
	return qty, nil
}

// SetQuantity escribe la nueva existencia.
func (s *StockStore) SetQuantity(ctx context.Context, productID string, qty int64) error {
	if err := s.check(productID); err != nil {
		return err
	}
	if qty < 0 {
		return domain.Invalid("la existencia no puede ser negativa")
	}
	cmd, err := s.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, productID, qty)
	if err != nil {
		return mapError("update product stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
