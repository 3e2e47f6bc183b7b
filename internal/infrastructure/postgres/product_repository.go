package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price, quantity, reorder_level, status, category_id, supplier_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Quantity, p.ReorderLevel, p.Status,
		nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return mapError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU (sin distinguir mayúsculas).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `SELECT `+productColumns+` FROM products WHERE lower(sku) = lower($1)`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return p, nil
}

// Update actualiza los datos maestros. No escribe quantity (solo cambia vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price = $5, reorder_level = $6, status = $7,
			category_id = $8, supplier_id = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.ReorderLevel, p.Status,
		nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros opcionales, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query, args, ok := productListQuery(f)
	if !ok {
		return []*entity.Product{}, nil
	}
	return r.list(ctx, "list products", query, args...)
}

// productListQuery arma el SELECT filtrado; ok=false si algún id de filtro no puede existir.
func productListQuery(f repository.ProductFilter) (query string, args []any, ok bool) {
	var where []string
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add(nameContains, f.Name)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CategoryID != "" {
		if !validID(f.CategoryID) {
			return "", nil, false
		}
		add("category_id = $%d", f.CategoryID)
	}
	if f.SupplierID != "" {
		if !validID(f.SupplierID) {
			return "", nil, false
		}
		add("supplier_id = $%d", f.SupplierID)
	}

	query = `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return query, args, true
}

// ListLowStock lista los productos activos en o por debajo de su punto de reorden.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, "list low stock products",
		`SELECT `+productColumns+` FROM products WHERE status = $1 AND quantity <= reorder_level ORDER BY name, id`,
		entity.ProductStatusActive)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		list = append(list, p)
	}
	return list, mapError(op, rows.Err())
}

// Delete elimina un producto; con movimientos la FK RESTRICT lo impide (ErrConflict).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p                      entity.Product
		categoryID, supplierID *string
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.ReorderLevel,
		&p.Status, &categoryID, &supplierID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CategoryID = deref(categoryID)
	p.SupplierID = deref(supplierID)
	return &p, nil
}
