package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// SupplierRepository implementa repository.SupplierRepository sobre el Store.
type SupplierRepository struct {
	store *Store
}

// NewSupplierRepository construye el repositorio.
func NewSupplierRepository(store *Store) *SupplierRepository {
	return &SupplierRepository{store: store}
}

func (r *SupplierRepository) Create(_ context.Context, sup *entity.Supplier) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sup.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *sup
	s.suppliers[sup.ID] = &cp
	return nil
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sup, ok := s.suppliers[id]; ok {
		cp := *sup
		return &cp, nil
	}
	return nil, nil
}

func (r *SupplierRepository) Update(_ context.Context, sup *entity.Supplier) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sup.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *sup
	s.suppliers[sup.ID] = &cp
	return nil
}

func (r *SupplierRepository) List(_ context.Context, activeOnly bool) ([]*entity.Supplier, error) {
	return r.collect(func(sup *entity.Supplier) bool { return !activeOnly || sup.IsActive }), nil
}

// SearchByName coincidencia parcial sin distinguir mayúsculas.
func (r *SupplierRepository) SearchByName(_ context.Context, name string) ([]*entity.Supplier, error) {
	q := strings.ToLower(name)
	return r.collect(func(sup *entity.Supplier) bool {
		return strings.Contains(strings.ToLower(sup.Name), q)
	}), nil
}

func (r *SupplierRepository) collect(keep func(*entity.Supplier) bool) []*entity.Supplier {
	s := r.store
	s.mu.RLock()
	out := make([]*entity.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		if keep(sup) {
			cp := *sup
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Delete elimina el proveedor y lo desasigna de sus productos.
func (r *SupplierRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.suppliers, id)
	for _, p := range s.products {
		if p.SupplierID == id {
			p.SupplierID = ""
		}
	}
	return nil
}
