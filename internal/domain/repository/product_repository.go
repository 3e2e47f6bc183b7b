package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// ProductFilter filtros opcionales para listar productos.
type ProductFilter struct {
	Name       string // coincidencia parcial, sin distinguir mayúsculas
	Status     string
	CategoryID string
	SupplierID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update nunca escribe Quantity: la existencia solo cambia a través de StockStore dentro del motor.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
