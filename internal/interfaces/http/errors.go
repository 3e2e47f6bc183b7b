package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain"
)

// respondError traduce un error de dominio a su respuesta HTTP.
// ErrInsufficientStock se evalúa antes que ErrConflict.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "USER_NOT_FOUND", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return errorJSON(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err)
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, "DUPLICATE", err)
	case errors.Is(err, domain.ErrUsernameTaken):
		return errorJSON(c, fiber.StatusConflict, "USERNAME_TAKEN", err)
	case errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, "CONFLICT", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", err)
	case errors.Is(err, domain.ErrStorageUnavailable):
		// La causa interna no se expone al cliente.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "STORAGE_UNAVAILABLE", Message: domain.ErrStorageUnavailable.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func errorJSON(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
