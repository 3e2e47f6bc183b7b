package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// TxRunner implementa inventory.TxRunner en memoria: mantiene el candado del producto durante fn y
// el commit; las escrituras quedan en staging y solo se aplican si fn devuelve nil.
type TxRunner struct {
	store *Store
	now   func() time.Time
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store, now: time.Now}
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, productID string, fn func(repository.StockStore, repository.MovementLedger) error) error {
	c := r.store.cellFor(productID)
	if c == nil {
		return domain.ErrNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleted {
		return domain.ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{store: r.store, productID: productID}
	if err := fn(tx, &txLedger{Ledger: NewLedger(r.store), tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.commit(tx)
	return nil
}

// commit publica cantidad y registros juntos: ningún lector ve uno sin el otro.
func (r *TxRunner) commit(tx *memTx) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	if tx.staged != nil {
		if p, ok := s.products[tx.productID]; ok {
			p.Quantity = *tx.staged
		}
	}
	for _, m := range tx.appended {
		s.nextID++
		m.ID = s.nextID
		if m.MovementDate.IsZero() {
			m.MovementDate = r.now().UTC()
		}
		s.movements = append(s.movements, copyMovement(m))
	}
}

// memTx es el StockStore de una unidad atómica.
type memTx struct {
	store     *Store
	productID string
	staged    *int64
	appended  []*entity.StockMovement
}

func (t *memTx) check(productID string) error {
	if productID != t.productID {
		return domain.Invalid("la unidad atómica es del producto %s, no de %s", t.productID, productID)
	}
	return nil
}

// GetQuantity devuelve la cantidad en staging o la confirmada.
func (t *memTx) GetQuantity(_ context.Context, productID string) (int64, error) {
	if err := t.check(productID); err != nil {
		return 0, err
	}
	if t.staged != nil {
		return *t.staged, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	p, ok := t.store.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p.Quantity, nil
}

// SetQuantity deja la cantidad en staging hasta el commit.
func (t *memTx) SetQuantity(_ context.Context, productID string, qty int64) error {
	if err := t.check(productID); err != nil {
		return err
	}
	if qty < 0 {
		return domain.Invalid("la existencia no puede ser negativa")
	}
	t.staged = &qty
	return nil
}

// txLedger agrega en staging; las lecturas ven solo lo confirmado.
type txLedger struct {
	*Ledger
	tx *memTx
}

// Append deja el registro en staging; ID y fecha se asignan al confirmar.
func (l *txLedger) Append(_ context.Context, m *entity.StockMovement) error {
	if err := l.tx.check(m.ProductID); err != nil {
		return err
	}
	l.tx.appended = append(l.tx.appended, m)
	return nil
}
