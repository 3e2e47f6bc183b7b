package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// MovementLedger define el puerto del libro de movimientos (solo agregar, sin update ni delete).
type MovementLedger interface {
	// Append asigna ID y, si falta, MovementDate sobre el registro recibido.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*entity.StockMovement, error)
	ListAll(ctx context.Context) ([]*entity.StockMovement, error)
	// ListByProduct devuelve los movimientos en orden de creación.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	// ListByDateRange incluye ambos extremos.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.StockMovement, error)
	// ListRecent devuelve los n más recientes, el más nuevo primero.
	ListRecent(ctx context.Context, n int) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
}
