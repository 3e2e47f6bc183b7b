package repository

import "context"

// StockStore define el puerto de lectura/escritura de la existencia de un producto.
// Se usa dentro de la unidad atómica del TxRunner; GetQuantity es la lectura autoritativa.
type StockStore interface {
	// GetQuantity devuelve domain.ErrNotFound si el producto no existe.
	GetQuantity(ctx context.Context, productID string) (int64, error)
	// SetQuantity rechaza valores negativos con domain.ErrInvalidInput.
	SetQuantity(ctx context.Context, productID string, qty int64) error
}
