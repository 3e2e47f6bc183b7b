package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// UserRepository implementa repository.UserRepository sobre el Store.
type UserRepository struct {
	store *Store
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if strings.EqualFold(other.Username, u.Username) {
			return domain.ErrUsernameTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
