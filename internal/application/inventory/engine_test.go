package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stockledger-api/internal/domain/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	products *memory.ProductRepository
	ledger   *memory.Ledger
	runner   inventory.TxRunner
	engine   *inventory.MovementEngine
}

func newFixture(t *testing.T, opts ...inventory.EngineOption) *fixture {
	t.Helper()
	s := memory.NewStore()
	f := &fixture{
		store:    s,
		products: memory.NewProductRepository(s),
		ledger:   memory.NewLedger(s),
		runner:   memory.NewTxRunner(s),
	}
	f.engine = inventory.NewMovementEngine(f.runner, f.ledger, inventory.ContextActorResolver{}, opts...)
	return f
}

// seed crea el producto y lleva su existencia a qty con un ajuste, como lo hace el alta de productos.
func (f *fixture) seed(t *testing.T, id string, qty int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: id, SKU: "SKU-" + id, Name: id, Status: entity.ProductStatusActive}))
	if qty > 0 {
		_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Kind: entity.MovementADJUSTMENT, Quantity: qty})
		require.NoError(t, err)
	}
}

func (f *fixture) quantity(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) assertFold(t *testing.T, id string) {
	t.Helper()
	list, err := f.ledger.ListByProduct(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, f.quantity(t, id), domaininv.Replay(list), "la existencia debe coincidir con el pliegue del libro")
}

func TestApply_EntradaSuma(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)

	mov, err := f.engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementIN, mov.Kind)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.NotZero(t, mov.ID)
	assert.False(t, mov.MovementDate.IsZero())
	assert.Equal(t, int64(8), f.quantity(t, "p1"))
	f.assertFold(t, "p1")
}

func TestApply_SalidaMayorAlStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)

	_, err := f.engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 10})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.quantity(t, "p1"))
	n, _ := f.ledger.CountByProduct(context.Background(), "p1")
	assert.Equal(t, int64(1), n, "solo el ajuste inicial")
}

func TestApply_AjusteACero(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)

	mov, err := f.engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementADJUSTMENT, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.Quantity)
	assert.Equal(t, int64(0), f.quantity(t, "p1"))
	f.assertFold(t, "p1")
}

func TestApply_ProductoDesconocido(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "nope", Kind: entity.MovementIN, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
	all, _ := f.ledger.ListAll(context.Background())
	assert.Empty(t, all)
}

func TestApply_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)
	ctx := context.Background()

	cases := []inventory.ApplyMovementInput{
		{ProductID: "", Kind: entity.MovementIN, Quantity: 1},
		{ProductID: "p1", Kind: entity.MovementIN, Quantity: 0},
		{ProductID: "p1", Kind: entity.MovementOUT, Quantity: -2},
		{ProductID: "p1", Kind: entity.MovementADJUSTMENT, Quantity: -1},
		{ProductID: "p1", Kind: "TRANSFER", Quantity: 1},
		{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1, Reason: strings.Repeat("a", entity.MaxReasonLength+1)},
	}
	for _, in := range cases {
		_, err := f.engine.Apply(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, int64(5), f.quantity(t, "p1"))
}

func TestApply_DesbordeEsEntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)
	ctx := context.Background()

	_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: math.MaxInt64})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.quantity(t, "p1"))

	_, err = f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementADJUSTMENT, Quantity: math.MaxInt64})
	require.NoError(t, err)
	_, err = f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementRETURN, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(math.MaxInt64), f.quantity(t, "p1"))

	n, err := f.ledger.CountByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "solo los dos ajustes")
	f.assertFold(t, "p1")
}

// TestApply_SecuenciaAleatoriaCoincideConElLibro aplica secuencias mixtas por el motor completo:
// tras cada corrida la existencia guardada es el pliegue del libro y el libro tiene
// exactamente un asiento por movimiento aceptado.
func TestApply_SecuenciaAleatoriaCoincideConElLibro(t *testing.T) {
	kinds := []entity.MovementKind{
		entity.MovementIN, entity.MovementOUT, entity.MovementRETURN, entity.MovementADJUSTMENT,
	}
	rng := rand.New(rand.NewSource(20240615))
	ctx := context.Background()
	f := newFixture(t)

	for run := 0; run < 100; run++ {
		id := fmt.Sprintf("p%d", run)
		f.seed(t, id, 0)

		applied := 0
		steps := 1 + rng.Intn(30)
		for i := 0; i < steps; i++ {
			kind := kinds[rng.Intn(len(kinds))]
			qty := int64(rng.Intn(40))
			if kind != entity.MovementADJUSTMENT {
				qty++
			}
			_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Kind: kind, Quantity: qty})
			if errors.Is(err, domain.ErrInsufficientStock) {
				continue
			}
			require.NoError(t, err, "run %d paso %d", run, i)
			applied++
		}

		list, err := f.ledger.ListByProduct(ctx, id)
		require.NoError(t, err)
		require.Len(t, list, applied, "run %d", run)
		got := f.quantity(t, id)
		require.GreaterOrEqual(t, got, int64(0))
		require.Equal(t, domaininv.Replay(list), got, "run %d", run)
	}
}

func TestApply_SalidasConcurrentes(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10)
	ctx := context.Background()

	var (
		mu           sync.Mutex
		ok, rejected int
	)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 6})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(4), f.quantity(t, "p1"))
	f.assertFold(t, "p1")
}

func TestApply_MuchasEntradasConcurrentesConservanElPliegue(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 0)
	f.seed(t, "p2", 0)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		pid := "p1"
		if i%2 == 1 {
			pid = "p2"
		}
		g.Go(func() error {
			_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: pid, Kind: entity.MovementIN, Quantity: 2})
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(50), f.quantity(t, "p1"))
	assert.Equal(t, int64(50), f.quantity(t, "p2"))
	f.assertFold(t, "p1")
	f.assertFold(t, "p2")
}

func TestListByProduct_OrdenDeCreacion(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: int64(i)})
		require.NoError(t, err)
	}
	list, err := f.engine.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, m := range list {
		assert.Equal(t, int64(i+1), m.Quantity)
		if i > 0 {
			assert.Greater(t, m.ID, list[i-1].ID)
		}
	}
}

func TestApply_ActorDesdeContexto(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 0)

	ctx := inventory.WithActor(context.Background(), "user-42")
	mov, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "user-42", mov.PerformedBy)

	mov, err = f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1, PerformedBy: "explicito"})
	require.NoError(t, err)
	assert.Equal(t, "explicito", mov.PerformedBy)

	mov, err = f.engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, mov.PerformedBy)
}

func TestApply_NormalizaMotivoYFecha(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, inventory.WithClock(func() time.Time { return fixed }))
	f.seed(t, "p1", 0)

	mov, err := f.engine.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: "p1", Kind: entity.MovementIN, Quantity: 1, Reason: "  compra  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "compra", mov.Reason)
	assert.Equal(t, fixed, mov.MovementDate)

	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	mov, err = f.engine.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: "p1", Kind: entity.MovementIN, Quantity: 1, MovementDate: &when,
	})
	require.NoError(t, err)
	assert.Equal(t, when, mov.MovementDate)
}

// failingAppendRunner envuelve un TxRunner y hace fallar el Append del libro.
type failingAppendRunner struct {
	inner inventory.TxRunner
	err   error
}

type failingLedger struct {
	repository.MovementLedger
	err error
}

func (l failingLedger) Append(context.Context, *entity.StockMovement) error { return l.err }

func (r failingAppendRunner) Run(ctx context.Context, productID string, fn func(repository.StockStore, repository.MovementLedger) error) error {
	return r.inner.Run(ctx, productID, func(stock repository.StockStore, ledger repository.MovementLedger) error {
		return fn(stock, failingLedger{MovementLedger: ledger, err: r.err})
	})
}

func TestApply_FalloAlAgregarRevierteLaCantidad(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 5)

	engine := inventory.NewMovementEngine(failingAppendRunner{inner: f.runner, err: errors.New("disco lleno")}, f.ledger, nil)
	_, err := engine.Apply(context.Background(), inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementOUT, Quantity: 2})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Equal(t, int64(5), f.quantity(t, "p1"))
	f.assertFold(t, "p1")
}

func TestListRecent_Limites(t *testing.T) {
	assert.Equal(t, 10, inventory.ClampRecent(0))
	assert.Equal(t, 10, inventory.ClampRecent(-3))
	assert.Equal(t, 7, inventory.ClampRecent(7))
	assert.Equal(t, 100, inventory.ClampRecent(1000))

	f := newFixture(t)
	f.seed(t, "p1", 0)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := f.engine.Apply(ctx, inventory.ApplyMovementInput{ProductID: "p1", Kind: entity.MovementIN, Quantity: 1})
		require.NoError(t, err)
	}
	recent, err := f.engine.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.GreaterOrEqual(t, recent[0].ID, recent[1].ID)
}

func TestListByDateRange_InicioPosterior(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	_, err := f.engine.ListByDateRange(context.Background(), now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
