package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialQuantity > 0 se registra como un ajuste en el libro de movimientos.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"max=1000"`
	Price           decimal.Decimal `json:"price"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	ReorderLevel    int64           `json:"reorder_level" validate:"min=0"`
	Status          string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	CategoryID      string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID      string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad: solo cambia vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	Price        *decimal.Decimal `json:"price"`
	ReorderLevel *int64           `json:"reorder_level" validate:"omitempty,min=0"`
	Status       *string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID   *string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// ProductFilterRequest filtros de GET /api/products.
type ProductFilterRequest struct {
	PageRequest
	Name       string `query:"name"`
	Status     string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
	ReorderLevel int64           `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	Status       string          `json:"status"`
	CategoryID   string          `json:"category_id,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	CurrentStock      int64  `json:"current_stock"`
	ReorderLevel      int64  `json:"reorder_level"`
	IdealStock        int64  `json:"ideal_stock"`         // ReorderLevel * 1.5
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitsOutLastDays  int64  `json:"units_out_last_90d"`
	Priority          int    `json:"priority"` // 1 = más urgente
}
