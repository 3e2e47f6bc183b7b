package entity

import "time"

// MovementKind tipo de movimiento de stock.
type MovementKind string

// Tipos de movimiento de stock.
const (
	MovementIN         MovementKind = "IN"         // entrada (compra)
	MovementOUT        MovementKind = "OUT"        // salida (venta)
	MovementRETURN     MovementKind = "RETURN"     // devolución a stock
	MovementADJUSTMENT MovementKind = "ADJUSTMENT" // ajuste manual: Quantity es la nueva existencia absoluta
)

// Valid indica si el tipo es uno de los cuatro definidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementIN, MovementOUT, MovementRETURN, MovementADJUSTMENT:
		return true
	}
	return false
}

// MaxReasonLength longitud máxima (en caracteres) del motivo de un movimiento.
const MaxReasonLength = 500

// StockMovement es un registro inmutable del libro de movimientos.
// Una vez agregado no se modifica ni se elimina; las correcciones se hacen con un movimiento compensatorio.
type StockMovement struct {
	ID           int64 // asignado al agregar, creciente y único
	ProductID    string
	Kind         MovementKind
	Quantity     int64  // magnitud; en ADJUSTMENT es la cantidad absoluta resultante
	Reason       string // opcional
	PerformedBy  string // opcional: id del actor autenticado
	MovementDate time.Time
}
