package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parsea el body en dst y valida sus tags. Si falla, ya escribió la respuesta 400
// y devuelve false.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return validateStruct(c, dst)
}

// bindQuery igual que bindJSON pero desde la query string.
func bindQuery(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.QueryParser(dst); err != nil {
		return false, badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	return validateStruct(c, dst)
}

func validateStruct(c *fiber.Ctx, dst any) (bool, error) {
	if err := validate.Struct(dst); err != nil {
		return false, badRequest(c, "VALIDATION", validationMessage(err))
	}
	return true, nil
}

// validationMessage resume los campos que fallaron: "quantity: min, movement_type: oneof".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, toSnake(fe.Field())+": "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
