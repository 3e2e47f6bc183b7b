package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"sin filas", pgx.ErrNoRows, domain.ErrNotFound},
		{"único", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConflict},
		{"lock no disponible", &pgconn.PgError{Code: "55P03"}, domain.ErrConflict},
		{"fk", fmt.Errorf("envuelto: %w", &pgconn.PgError{Code: "23503"}), domain.ErrConflict},
		{"solo inserción", &pgconn.PgError{Code: "23001"}, domain.ErrConflict},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrInvalidInput},
		{"uuid mal formado", &pgconn.PgError{Code: "22P02"}, domain.ErrInvalidInput},
		{"otro código", &pgconn.PgError{Code: "08006"}, domain.ErrStorageUnavailable},
		{"red", errors.New("connection refused"), domain.ErrStorageUnavailable},
		{"contexto", context.DeadlineExceeded, domain.ErrStorageUnavailable},
		{"dominio pasa intacto", domain.ErrInsufficientStock, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tc.err), tc.want)
		})
	}
	assert.NoError(t, mapError("op", nil))
}

func TestMapError_ConservaCausa(t *testing.T) {
	cause := &pgconn.PgError{Code: "40001"}
	err := mapError("op", cause)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestProductListQuery_NombreSinComodines(t *testing.T) {
	query, args, ok := productListQuery(repository.ProductFilter{Name: "50%_off", Status: "active", Limit: 10})
	require.True(t, ok)
	assert.Contains(t, query, "position(lower($1) in lower(name)) > 0")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "LIMIT $3")
	assert.NotContains(t, query, "LIKE")
	assert.Equal(t, []any{"50%_off", "active", 10}, args, "el texto buscado viaja sin modificar como parámetro")
}

func TestProductListQuery_IDInvalido(t *testing.T) {
	_, _, ok := productListQuery(repository.ProductFilter{CategoryID: "no-es-uuid"})
	assert.False(t, ok)

	query, args, ok := productListQuery(repository.ProductFilter{})
	require.True(t, ok)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}
