package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// ErrIdempotencyInFlight la clave está reservada por una petición que no ha terminado.
var ErrIdempotencyInFlight = errors.New("la petición con esta clave de idempotencia sigue en curso")

// ApplyIdempotent aplica el movimiento una sola vez por clave. Una clave ya completada devuelve el
// registro original sin volver a aplicar; sin clave o sin store se comporta como Apply.
// replayed indica que el registro proviene de una petición anterior.
func (e *MovementEngine) ApplyIdempotent(ctx context.Context, key string, input ApplyMovementInput) (mov *entity.StockMovement, replayed bool, err error) {
	if key == "" || e.idem == nil {
		mov, err = e.Apply(ctx, input)
		return mov, false, err
	}

	reserved, movementID, err := e.idem.Reserve(ctx, key)
	if err != nil {
		return nil, false, domain.Unavailable("reservar clave de idempotencia", err)
	}
	if !reserved {
		if movementID == 0 {
			return nil, false, errors.Join(domain.ErrConflict, ErrIdempotencyInFlight)
		}
		mov, err = e.GetByID(ctx, movementID)
		return mov, err == nil, err
	}

	mov, err = e.Apply(ctx, input)
	if err != nil {
		if relErr := e.idem.Release(ctx, key); relErr != nil {
			e.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
		return nil, false, err
	}
	if err := e.idem.Complete(ctx, key, mov.ID); err != nil {
		// El movimiento ya está confirmado; solo se pierde la protección ante reintentos.
		e.log.Error().Err(err).Str("idempotency_key", key).Int64("movement_id", mov.ID).Msg("no se pudo completar la clave de idempotencia")
	}
	return mov, false, nil
}
