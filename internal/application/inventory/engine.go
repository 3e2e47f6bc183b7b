package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// MovementEngine aplica movimientos de stock de forma atómica: lee la existencia autoritativa,
// calcula la nueva, rechaza si quedaría negativa y persiste existencia y registro en la misma unidad.
type MovementEngine struct {
	txRunner TxRunner
	ledger   repository.MovementLedger
	actors   ActorResolver
	idem     IdempotencyStore
	now      Clock
	log      *logger.Logger
}

// EngineOption configura dependencias opcionales del motor.
type EngineOption func(*MovementEngine)

// WithIdempotency habilita ApplyIdempotent con el store indicado.
func WithIdempotency(store IdempotencyStore) EngineOption {
	return func(e *MovementEngine) { e.idem = store }
}

// WithClock fija el reloj usado para las fechas de movimiento.
func WithClock(c Clock) EngineOption {
	return func(e *MovementEngine) { e.now = c }
}

// WithLogger asigna el logger del motor.
func WithLogger(l *logger.Logger) EngineOption {
	return func(e *MovementEngine) { e.log = l }
}

// NewMovementEngine construye el motor. ledger se usa solo para lecturas fuera de la unidad atómica.
func NewMovementEngine(txRunner TxRunner, ledger repository.MovementLedger, actors ActorResolver, opts ...EngineOption) *MovementEngine {
	e := &MovementEngine{
		txRunner: txRunner,
		ledger:   ledger,
		actors:   actors,
		now:      time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyMovementInput entrada para aplicar un movimiento.
// PerformedBy vacío: se toma del ActorResolver. MovementDate nil: se asigna al agregar.
type ApplyMovementInput struct {
	ProductID    string
	Kind         entity.MovementKind
	Quantity     int64
	Reason       string
	PerformedBy  string
	MovementDate *time.Time
}

// Apply valida la entrada antes de tomar cualquier bloqueo y ejecuta lectura-cálculo-escritura
// dentro del TxRunner. Devuelve el registro agregado con ID y fecha asignados.
func (e *MovementEngine) Apply(ctx context.Context, input ApplyMovementInput) (*entity.StockMovement, error) {
	mov, err := e.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	var before int64
	err = e.txRunner.Run(ctx, mov.ProductID, func(stock repository.StockStore, ledger repository.MovementLedger) error {
		current, err := stock.GetQuantity(ctx, mov.ProductID)
		if err != nil {
			return err
		}
		next, err := inventory.NextQuantity(current, mov.Kind, mov.Quantity)
		if err != nil {
			return err
		}
		if err := stock.SetQuantity(ctx, mov.ProductID, next); err != nil {
			return err
		}
		before = current
		return ledger.Append(ctx, mov)
	})
	if err != nil {
		err = surface("aplicar movimiento", err)
		e.logFailure(mov, err)
		return nil, err
	}

	e.log.Info().
		Int64("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("kind", string(mov.Kind)).
		Int64("quantity", mov.Quantity).
		Int64("before", before).
		Int64("after", inventory.Step(before, mov.Kind, mov.Quantity)).
		Str("performed_by", mov.PerformedBy).
		Msg("movimiento de stock aplicado")
	return mov, nil
}

func (e *MovementEngine) prepare(ctx context.Context, input ApplyMovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	if err := inventory.ValidateQuantity(input.Kind, input.Quantity); err != nil {
		return nil, err
	}
	reason, err := inventory.NormalizeReason(input.Reason)
	if err != nil {
		return nil, err
	}

	performedBy := input.PerformedBy
	if performedBy == "" && e.actors != nil {
		if actor, ok := e.actors.CurrentActor(ctx); ok {
			performedBy = actor
		}
	}

	mov := &entity.StockMovement{
		ProductID:   input.ProductID,
		Kind:        input.Kind,
		Quantity:    input.Quantity,
		Reason:      reason,
		PerformedBy: performedBy,
	}
	if input.MovementDate != nil {
		mov.MovementDate = input.MovementDate.UTC()
	} else {
		mov.MovementDate = e.now().UTC()
	}
	return mov, nil
}

func (e *MovementEngine) logFailure(mov *entity.StockMovement, err error) {
	ev := e.log.Warn()
	if errors.Is(err, domain.ErrStorageUnavailable) {
		ev = e.log.Error()
	}
	ev.Err(err).
		Str("product_id", mov.ProductID).
		Str("kind", string(mov.Kind)).
		Int64("quantity", mov.Quantity).
		Msg("movimiento de stock rechazado")
}

// surface deja pasar los errores de dominio y envuelve el resto como ErrStorageUnavailable.
func surface(op string, err error) error {
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	return domain.Unavailable(op, err)
}

// GetByID devuelve un movimiento por id.
func (e *MovementEngine) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	mov, err := e.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, surface("obtener movimiento", err)
	}
	return mov, nil
}

// ListAll devuelve todo el libro en orden de creación.
func (e *MovementEngine) ListAll(ctx context.Context) ([]*entity.StockMovement, error) {
	list, err := e.ledger.ListAll(ctx)
	return list, surface("listar movimientos", err)
}

// ListByProduct devuelve los movimientos de un producto en orden de creación.
func (e *MovementEngine) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	list, err := e.ledger.ListByProduct(ctx, productID)
	return list, surface("listar movimientos por producto", err)
}

// ListByDateRange devuelve los movimientos con fecha en [start, end].
func (e *MovementEngine) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.StockMovement, error) {
	if start.After(end) {
		return nil, domain.Invalid("la fecha inicial es posterior a la final")
	}
	list, err := e.ledger.ListByDateRange(ctx, start, end)
	return list, surface("listar movimientos por fecha", err)
}

// ListRecent devuelve los n movimientos más recientes (n<=0 usa 10, máximo 100).
func (e *MovementEngine) ListRecent(ctx context.Context, n int) ([]*entity.StockMovement, error) {
	list, err := e.ledger.ListRecent(ctx, ClampRecent(n))
	return list, surface("listar movimientos recientes", err)
}

// ClampRecent normaliza el límite de movimientos recientes.
func ClampRecent(n int) int {
	if n <= 0 {
		return defaultRecentLimit
	}
	if n > maxRecentLimit {
		return maxRecentLimit
	}
	return n
}
