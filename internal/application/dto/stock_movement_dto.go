package dto

import (
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// CreateStockMovementRequest body para POST /api/stock-movements.
// En ADJUSTMENT quantity es la nueva existencia absoluta (puede ser 0).
type CreateStockMovementRequest struct {
	ProductID    string     `json:"product_id" validate:"required"`
	Kind         string     `json:"movement_type" validate:"required,oneof=IN OUT RETURN ADJUSTMENT"`
	Quantity     int64      `json:"quantity" validate:"min=0"`
	Reason       string     `json:"reason"`
	MovementDate *time.Time `json:"movement_date,omitempty"`
}

// StockMovementResponse salida de un movimiento del libro.
type StockMovementResponse struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"product_id"`
	Kind         string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	Reason       string    `json:"reason,omitempty"`
	PerformedBy  string    `json:"performed_by,omitempty"`
	MovementDate time.Time `json:"movement_date"`
}

// ToStockMovementResponse convierte un registro del libro a su salida HTTP.
func ToStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Kind:         string(m.Kind),
		Quantity:     m.Quantity,
		Reason:       m.Reason,
		PerformedBy:  m.PerformedBy,
		MovementDate: m.MovementDate,
	}
}

// ToStockMovementList convierte una lista de registros.
func ToStockMovementList(list []*entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToStockMovementResponse(m))
	}
	return out
}
