package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive       = "ACTIVE"
	ProductStatusInactive     = "INACTIVE"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// Product representa un producto o SKU del inventario (ubicación única).
// Quantity es un valor derivado del libro de movimientos y solo lo escribe el motor de movimientos.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	Price        decimal.Decimal
	Quantity     int64 // existencia actual, nunca negativa
	ReorderLevel int64 // punto de reorden
	Status       string
	CategoryID   string // vacío si no tiene categoría
	SupplierID   string // vacío si no tiene proveedor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el producto activo está en o por debajo de su punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Status == ProductStatusActive && p.Quantity <= p.ReorderLevel
}

// ValidProductStatus valida el estado recibido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}
