// Package inventory contiene las reglas puras de cantidades de stock (servicio de dominio):
// validación de movimientos, cálculo de la nueva existencia y reconstrucción desde el libro.
package inventory

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// NormalizeReason recorta espacios y normaliza a NFC; la longitud se mide en caracteres, no en bytes.
func NormalizeReason(reason string) (string, error) {
	r := norm.NFC.String(strings.TrimSpace(reason))
	if utf8.RuneCountInString(r) > entity.MaxReasonLength {
		return "", domain.Invalid("el motivo supera %d caracteres", entity.MaxReasonLength)
	}
	return r, nil
}

// ValidateQuantity valida la magnitud según el tipo:
// IN/OUT/RETURN requieren cantidad positiva; ADJUSTMENT acepta cero (deja el stock en cero).
func ValidateQuantity(kind entity.MovementKind, qty int64) error {
	switch kind {
	case entity.MovementIN, entity.MovementOUT, entity.MovementRETURN:
		if qty <= 0 {
			return domain.Invalid("la cantidad de %s debe ser positiva", kind)
		}
	case entity.MovementADJUSTMENT:
		if qty < 0 {
			return domain.Invalid("la cantidad de ajuste no puede ser negativa")
		}
	default:
		return domain.Invalid("tipo de movimiento desconocido %q", kind)
	}
	return nil
}

// Step aplica un movimiento a la cantidad actual sin validar el resultado.
// IN y RETURN suman, OUT resta, ADJUSTMENT fija el valor absoluto.
func Step(current int64, kind entity.MovementKind, qty int64) int64 {
	switch kind {
	case entity.MovementIN, entity.MovementRETURN:
		return current + qty
	case entity.MovementOUT:
		return current - qty
	case entity.MovementADJUSTMENT:
		return qty
	}
	return current
}

// NextQuantity calcula la existencia candidata y rechaza con ErrInsufficientStock si quedaría negativa.
// Una entrada o devolución que desborde int64 es ErrInvalidInput, nunca falta de stock.
func NextQuantity(current int64, kind entity.MovementKind, qty int64) (int64, error) {
	if err := ValidateQuantity(kind, qty); err != nil {
		return current, err
	}
	if (kind == entity.MovementIN || kind == entity.MovementRETURN) && current > math.MaxInt64-qty {
		return current, domain.Invalid("la existencia resultante excede el máximo permitido")
	}
	next := Step(current, kind, qty)
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// Replay reconstruye la existencia plegando los movimientos en orden de creación desde cero.
func Replay(movements []*entity.StockMovement) int64 {
	var q int64
	for _, m := range movements {
		q = Step(q, m.Kind, m.Quantity)
	}
	return q
}
