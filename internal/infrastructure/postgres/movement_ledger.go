package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.MovementLedger = (*MovementLedger)(nil)

const movementColumns = `id, product_id, movement_type, quantity, reason, performed_by, movement_date`

// MovementLedger implementación del libro sobre stock_movements (usable con pool o tx).
type MovementLedger struct {
	q Querier
}

// NewMovementLedger construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLedger(q Querier) *MovementLedger {
	return &MovementLedger{q: q}
}

// Append inserta el registro; la base asigna id (BIGSERIAL) y, si falta, movement_date.
func (r *MovementLedger) Append(ctx context.Context, m *entity.StockMovement) error {
	var date *time.Time
	if !m.MovementDate.IsZero() {
		date = &m.MovementDate
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, quantity, reason, performed_by, movement_date)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		RETURNING id, movement_date`,
		m.ProductID, string(m.Kind), m.Quantity, m.Reason, m.PerformedBy, date,
	).Scan(&m.ID, &m.MovementDate)
	if err != nil {
		return mapError("append stock movement", err)
	}
	m.MovementDate = m.MovementDate.UTC()
	return nil
}

// GetByID obtiene un movimiento por id.
func (r *MovementLedger) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError("get stock movement", err)
	}
	return m, nil
}

// ListAll devuelve todo el libro en orden de creación.
func (r *MovementLedger) ListAll(ctx context.Context) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list stock movements", `SELECT `+movementColumns+` FROM stock_movements ORDER BY id`)
}

// ListByProduct devuelve los movimientos del producto en orden de creación.
func (r *MovementLedger) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	if !validID(productID) {
		return []*entity.StockMovement{}, nil
	}
	return r.list(ctx, "list stock movements by product",
		`SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY id`, productID)
}

// ListByDateRange devuelve los movimientos con fecha en [start, end].
func (r *MovementLedger) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list stock movements by date",
		`SELECT `+movementColumns+` FROM stock_movements WHERE movement_date BETWEEN $1 AND $2 ORDER BY id`, start, end)
}

// ListRecent devuelve los n más recientes, el más nuevo primero.
func (r *MovementLedger) ListRecent(ctx context.Context, n int) ([]*entity.StockMovement, error) {
	return r.list(ctx, "list recent stock movements",
		`SELECT `+movementColumns+` FROM stock_movements ORDER BY movement_date DESC, id DESC LIMIT $1`, n)
}

// CountByProduct cuenta los movimientos del producto.
func (r *MovementLedger) CountByProduct(ctx context.Context, productID string) (int64, error) {
	if !validID(productID) {
		return 0, nil
	}
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, mapError("count stock movements", err)
	}
	return n, nil
}

func (r *MovementLedger) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		list = append(list, m)
	}
	return list, mapError(op, rows.Err())
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m    entity.StockMovement
		kind string
	)
	if err := row.Scan(&m.ID, &m.ProductID, &kind, &m.Quantity, &m.Reason, &m.PerformedBy, &m.MovementDate); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	m.MovementDate = m.MovementDate.UTC()
	return &m, nil
}
