package inventory

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// ApplyFromRequest adapta el request HTTP al motor (ApplyIdempotent con la clave del header).
// El actor no viene en el body: lo aporta el contexto del request autenticado.
func (e *MovementEngine) ApplyFromRequest(ctx context.Context, idempotencyKey string, in dto.CreateStockMovementRequest) (*entity.StockMovement, bool, error) {
	input := ApplyMovementInput{
		ProductID:    in.ProductID,
		Kind:         entity.MovementKind(in.Kind),
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		MovementDate: in.MovementDate,
	}
	return e.ApplyIdempotent(ctx, idempotencyKey, input)
}
