package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// keyStore IdempotencyStore en memoria: 0 = reservada en curso, >0 = id del movimiento.
type keyStore struct {
	mu   sync.Mutex
	keys map[string]int64
}

func newKeyStore() *keyStore { return &keyStore{keys: map[string]int64{}} }

func (s *keyStore) Reserve(_ context.Context, key string) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.keys[key]; ok {
		return false, id, nil
	}
	s.keys[key] = 0
	return true, 0, nil
}

func (s *keyStore) Complete(_ context.Context, key string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = id
	return nil
}

func (s *keyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func TestApplyIdempotent_ReintentoDevuelveElMismoRegistro(t *testing.T) {
	keys := newKeyStore()
	f := newFixture(t, inventory.WithIdempotency(keys))
	f.seed(t, "p1", 10)
	ctx := context.Background()
	in := inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 3}

	first, replayed, err := f.engine.ApplyIdempotent(ctx, "k-1", in)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := f.engine.ApplyIdempotent(ctx, "k-1", in)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(7), f.quantity(t, "p1"), "el reintento no vuelve a descontar")
}

func TestApplyIdempotent_ClaveEnCurso(t *testing.T) {
	keys := newKeyStore()
	keys.keys["k-1"] = 0
	f := newFixture(t, inventory.WithIdempotency(keys))
	f.seed(t, "p1", 10)

	_, _, err := f.engine.ApplyIdempotent(context.Background(), "k-1", inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, inventory.ErrIdempotencyInFlight)
	assert.Equal(t, int64(10), f.quantity(t, "p1"))
}

func TestApplyIdempotent_FalloLiberaLaClave(t *testing.T) {
	keys := newKeyStore()
	f := newFixture(t, inventory.WithIdempotency(keys))
	f.seed(t, "p1", 2)
	ctx := context.Background()

	_, _, err := f.engine.ApplyIdempotent(ctx, "k-1", inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 5})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, reserved := keys.keys["k-1"]
	assert.False(t, reserved)

	mov, replayed, err := f.engine.ApplyIdempotent(ctx, "k-1", inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 2})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, int64(2), mov.Quantity)
}

func TestApplyIdempotent_SinClaveEsApply(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 1)
	ctx := context.Background()
	in := inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1}

	_, _, err := f.engine.ApplyIdempotent(ctx, "", in)
	require.NoError(t, err)
	_, _, err = f.engine.ApplyIdempotent(ctx, "ignorada-sin-store", in)
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.quantity(t, "p1"))
}
