package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función como unidad atómica sobre un único producto, pasando el store de
// existencias y el libro atados a esa unidad. Si fn devuelve error no queda nada visible.
// Dos unidades sobre el mismo productID se serializan; productos distintos no se bloquean entre sí.
type TxRunner interface {
	Run(ctx context.Context, productID string, fn func(
		stock repository.StockStore,
		ledger repository.MovementLedger,
	) error) error
}

// ActorResolver obtiene la identidad del usuario autenticado para la operación en curso.
type ActorResolver interface {
	CurrentActor(ctx context.Context) (string, bool)
}

// IdempotencyStore guarda claves de idempotencia de los POST de movimientos.
type IdempotencyStore interface {
	// Reserve intenta reservar la clave. Si ya estaba completada devuelve reserved=false y el id
	// del movimiento original; si sigue en curso devuelve reserved=false y movementID=0.
	Reserve(ctx context.Context, key string) (reserved bool, movementID int64, err error)
	Complete(ctx context.Context, key string, movementID int64) error
	Release(ctx context.Context, key string) error
}

// StockCardPDFGenerator genera el PDF del kardex de un producto.
type StockCardPDFGenerator interface {
	Generate(product *entity.Product, lines []StockCardLine, generatedAt time.Time) ([]byte, error)
}

// Clock permite fijar la hora en pruebas.
type Clock func() time.Time
