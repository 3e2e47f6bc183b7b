package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// initialStockReason motivo del ajuste que registra la existencia inicial de un producto.
const initialStockReason = "Saldo inicial"

// MovementApplier puerto del motor de movimientos usado para la existencia inicial.
type MovementApplier interface {
	Apply(ctx context.Context, input inventory.ApplyMovementInput) (*entity.StockMovement, error)
}

// ProductUseCase casos de uso CRUD para productos. La existencia solo cambia vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	ledger       repository.MovementLedger
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	movements    MovementApplier
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	ledger repository.MovementLedger,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	movements MovementApplier,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		ledger:       ledger,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		movements:    movements,
	}
}

// Create crea un nuevo producto con existencia 0; si InitialQuantity > 0 registra un ajuste.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("sku y name son obligatorios")
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.Invalid("el precio no puede ser negativo")
	}
	if in.ReorderLevel < 0 || in.InitialQuantity < 0 {
		return nil, domain.Invalid("las cantidades no pueden ser negativas")
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	if !entity.ValidProductStatus(status) {
		return nil, domain.Invalid("estado de producto inválido %q", status)
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		ReorderLevel: in.ReorderLevel,
		Status:       status,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	if in.InitialQuantity > 0 {
		if _, err := uc.movements.Apply(ctx, inventory.ApplyMovementInput{
			ProductID: product.ID,
			Kind:      entity.MovementADJUSTMENT,
			Quantity:  in.InitialQuantity,
			Reason:    initialStockReason,
		}); err != nil {
			return nil, err
		}
		product.Quantity = in.InitialQuantity
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.Invalid("la categoría %s no existe", categoryID)
		}
	}
	if supplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.Invalid("el proveedor %s no existe", supplierID)
		}
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por SKU.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar la existencia (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede estar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.Invalid("el precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.Invalid("reorder_level no puede ser negativo")
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return nil, domain.Invalid("estado de producto inválido %q", *in.Status)
		}
		product.Status = *in.Status
	}
	categoryID, supplierID := "", ""
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
		product.CategoryID = categoryID
	}
	if in.SupplierID != nil {
		supplierID = *in.SupplierID
		product.SupplierID = supplierID
	}
	if err := uc.checkRefs(ctx, categoryID, supplierID); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Name:       strings.TrimSpace(in.Name),
		Status:     in.Status,
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// ListLowStock lista los productos activos en o por debajo de su punto de reorden.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Delete elimina un producto sin historial de movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	n, err := uc.ledger.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		LowStock:     p.IsLowStock(),
		Status:       p.Status,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
