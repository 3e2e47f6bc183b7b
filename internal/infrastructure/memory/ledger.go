package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Ledger implementa repository.MovementLedger sobre el Store. Los registros se devuelven como copias.
type Ledger struct {
	store *Store
	now   func() time.Time
}

// NewLedger construye el libro.
func NewLedger(store *Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Append agrega fuera de una unidad atómica. El motor siempre agrega a través del TxRunner.
func (l *Ledger) Append(_ context.Context, m *entity.StockMovement) error {
	s := l.store
	s.mu.RLock()
	_, ok := s.products[m.ProductID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()
	s.nextID++
	m.ID = s.nextID
	if m.MovementDate.IsZero() {
		m.MovementDate = l.now().UTC()
	}
	s.movements = append(s.movements, copyMovement(m))
	return nil
}

// GetByID busca por id; los ids son densos salvo movimientos nunca confirmados.
func (l *Ledger) GetByID(_ context.Context, id int64) (*entity.StockMovement, error) {
	s := l.store
	s.ledgerMu.RLock()
	defer s.ledgerMu.RUnlock()
	i := sort.Search(len(s.movements), func(i int) bool { return s.movements[i].ID >= id })
	if i < len(s.movements) && s.movements[i].ID == id {
		return copyMovement(s.movements[i]), nil
	}
	return nil, domain.ErrNotFound
}

func (l *Ledger) filter(keep func(*entity.StockMovement) bool) []*entity.StockMovement {
	s := l.store
	s.ledgerMu.RLock()
	defer s.ledgerMu.RUnlock()
	out := make([]*entity.StockMovement, 0)
	for _, m := range s.movements {
		if keep(m) {
			out = append(out, copyMovement(m))
		}
	}
	return out
}

// ListAll devuelve todo el libro en orden de creación.
func (l *Ledger) ListAll(_ context.Context) ([]*entity.StockMovement, error) {
	return l.filter(func(*entity.StockMovement) bool { return true }), nil
}

// ListByProduct devuelve los movimientos del producto en orden de creación.
func (l *Ledger) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	return l.filter(func(m *entity.StockMovement) bool { return m.ProductID == productID }), nil
}

// ListByDateRange devuelve los movimientos con fecha en [start, end], en orden de creación.
func (l *Ledger) ListByDateRange(_ context.Context, start, end time.Time) ([]*entity.StockMovement, error) {
	return l.filter(func(m *entity.StockMovement) bool {
		return !m.MovementDate.Before(start) && !m.MovementDate.After(end)
	}), nil
}

// ListRecent devuelve los n más recientes por fecha (desempate por id), el más nuevo primero.
func (l *Ledger) ListRecent(ctx context.Context, n int) ([]*entity.StockMovement, error) {
	all, _ := l.ListAll(ctx)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].MovementDate.Equal(all[j].MovementDate) {
			return all[i].MovementDate.After(all[j].MovementDate)
		}
		return all[i].ID > all[j].ID
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// CountByProduct cuenta los movimientos del producto.
func (l *Ledger) CountByProduct(_ context.Context, productID string) (int64, error) {
	s := l.store
	s.ledgerMu.RLock()
	defer s.ledgerMu.RUnlock()
	return s.countLocked(productID), nil
}

// countLocked requiere ledgerMu tomado.
func (s *Store) countLocked(productID string) int64 {
	var n int64
	for _, m := range s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n
}
