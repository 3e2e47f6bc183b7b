package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameTaken      = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// Invalid envuelve ErrInvalidInput con el detalle de la validación fallida.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Unavailable envuelve un fallo de infraestructura como ErrStorageUnavailable conservando la causa.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// IsDomainError informa si err pertenece a la taxonomía de errores de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrUsernameTaken, ErrInvalidInput, ErrDuplicate,
		ErrUnauthorized, ErrForbidden, ErrConflict, ErrInsufficientStock, ErrStorageUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
