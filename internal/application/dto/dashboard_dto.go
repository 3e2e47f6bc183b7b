package dto

import "github.com/shopspring/decimal"

// MovementTotalsDTO unidades que entraron y salieron en un periodo.
// Los ajustes se cuentan aparte porque su cantidad es absoluta.
type MovementTotalsDTO struct {
	Movements   int   `json:"movements"`
	UnitsIn     int64 `json:"units_in"`  // IN + RETURN
	UnitsOut    int64 `json:"units_out"` // OUT
	Adjustments int   `json:"adjustments"`
}

// TopSKUDTO producto con más unidades despachadas en el mes.
type TopSKUDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitsOut  int64  `json:"units_out"`
}

// DashboardSummaryDTO resumen del inventario para el tablero.
type DashboardSummaryDTO struct {
	Today         MovementTotalsDTO `json:"today"`
	Month         MovementTotalsDTO `json:"month"`
	StockValue    decimal.Decimal   `json:"stock_value"` // suma de price * quantity
	ProductCount  int               `json:"product_count"`
	LowStockCount int               `json:"low_stock_count"`
	TopSKUs       []TopSKUDTO       `json:"top_skus"`
	DateLabel     string            `json:"date_label"`
}
