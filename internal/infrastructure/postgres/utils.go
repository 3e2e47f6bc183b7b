package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockledger-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeRestrictViolation    = "23001"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// nameContains filtro "name contiene $n" sin distinguir mayúsculas. Con position() los caracteres
// % y _ del texto buscado son literales, igual que en el backend en memoria.
const nameContains = "position(lower($%d) in lower(name)) > 0"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// mapError traduce errores de pgx a la taxonomía de dominio conservando la causa.
// pgx.ErrNoRows -> ErrNotFound; conflictos de concurrencia e integridad -> ErrConflict;
// cualquier otro fallo -> ErrStorageUnavailable.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.ConstraintName)
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable,
			codeForeignKeyViolation, codeRestrictViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.ConstraintName)
		case codeInvalidText:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
		}
	}
	return domain.Unavailable(op, err)
}

// nullIfEmpty envía NULL para referencias opcionales vacías.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// validID indica si id puede ser una clave UUID; un id mal formado nunca existe.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
