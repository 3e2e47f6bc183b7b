package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, contact_person, email, phone, address, is_active, created_at, updated_at`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.IsActive, s.CreatedAt, s.UpdatedAt)
	return mapError("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get supplier", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6, is_active = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.IsActive, s.UpdatedAt)
	if err != nil {
		return mapError("update supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE is_active OR NOT $1 ORDER BY name`, activeOnly)
}

// SearchByName coincidencia parcial sin distinguir mayúsculas.
func (r *SupplierRepo) SearchByName(ctx context.Context, name string) ([]*entity.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE `+fmt.Sprintf(nameContains, 1)+` ORDER BY name`, name)
}

func (r *SupplierRepo) list(ctx context.Context, query string, arg any) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, mapError("list suppliers", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, mapError("scan supplier", err)
		}
		list = append(list, s)
	}
	return list, mapError("list suppliers", rows.Err())
}

// Delete elimina el proveedor; los productos quedan sin proveedor (ON DELETE SET NULL).
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return mapError("delete supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
