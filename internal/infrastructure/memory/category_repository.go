package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// CategoryRepository implementa repository.CategoryRepository sobre el Store.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) nameTaken(name, exceptID string) bool {
	for id, c := range r.store.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; ok || r.nameTaken(c.Name, "") {
		return domain.ErrDuplicate
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *entity.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) List(_ context.Context, activeOnly bool) ([]*entity.Category, error) {
	s := r.store
	s.mu.RLock()
	out := make([]*entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if !activeOnly || c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete elimina la categoría y la desasigna de sus productos.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.categories, id)
	for _, p := range s.products {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return nil
}
