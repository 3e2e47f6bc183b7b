package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// ProductRepository implementa repository.ProductRepository sobre el Store.
type ProductRepository struct {
	store *Store
}

// NewProductRepository construye el repositorio.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Create inserta el producto con la cantidad recibida; SKU repetido devuelve ErrDuplicate.
func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range s.products {
		if strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	s.products[p.ID] = copyProduct(p)
	s.cells[p.ID] = &cell{}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		return copyProduct(p), nil
	}
	return nil, nil
}

// GetBySKU devuelve (nil, nil) si no existe.
func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if strings.EqualFold(p.SKU, sku) {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

// Update reemplaza los datos maestros conservando la cantidad confirmada.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range s.products {
		if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	updated := copyProduct(p)
	updated.Quantity = current.Quantity
	s.products[p.ID] = updated
	return nil
}

// List filtra y pagina, ordenado por nombre.
func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	name := strings.ToLower(f.Name)
	out := r.collect(func(p *entity.Product) bool {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			return false
		}
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			return false
		}
		return true
	})
	if f.Offset >= len(out) {
		return []*entity.Product{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ListLowStock devuelve los productos activos en o bajo su punto de reorden.
func (r *ProductRepository) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return r.collect((*entity.Product).IsLowStock), nil
}

func (r *ProductRepository) collect(keep func(*entity.Product) bool) []*entity.Product {
	s := r.store
	s.mu.RLock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, copyProduct(p))
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete elimina el producto si no tiene movimientos; con historial devuelve ErrConflict.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	s := r.store
	c := s.cellFor(id)
	if c == nil {
		return domain.ErrNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleted {
		return domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgerMu.RLock()
	n := s.countLocked(id)
	s.ledgerMu.RUnlock()
	if n > 0 {
		return domain.ErrConflict
	}
	delete(s.products, id)
	delete(s.cells, id)
	c.deleted = true
	return nil
}
