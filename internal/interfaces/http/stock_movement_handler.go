package http

import (
	"mime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

// HeaderIdempotencyKey header opcional para reintentos seguros de POST /api/stock-movements.
const HeaderIdempotencyKey = "Idempotency-Key"

// StockMovementHandler maneja el libro de movimientos y el kardex (protegido).
type StockMovementHandler struct {
	engine    *inventory.MovementEngine
	stockCard *inventory.StockCardUseCase
}

// NewStockMovementHandler construye el handler.
func NewStockMovementHandler(engine *inventory.MovementEngine, stockCard *inventory.StockCardUseCase) *StockMovementHandler {
	return &StockMovementHandler{engine: engine, stockCard: stockCard}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Description  IN/RETURN suman, OUT resta (nunca deja existencia negativa), ADJUSTMENT fija la existencia absoluta.
//
//	Con Idempotency-Key un reintento devuelve el movimiento original con 200.
//
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.CreateStockMovementRequest  true  "product_id, movement_type, quantity, reason"
// @Success      201   {object}  dto.StockMovementResponse
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *StockMovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	mov, replayed, err := h.engine.ApplyFromRequest(c.UserContext(), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusCreated
	if replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.ToStockMovementResponse(mov))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [get]
func (h *StockMovementHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	mov, err := h.engine.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockMovementResponse(mov))
}

// List godoc
// @Summary      Listar todos los movimientos (orden de creación)
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock-movements [get]
func (h *StockMovementHandler) List(c *fiber.Ctx) error {
	list, err := h.engine.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockMovementList(list))
}

// ListByProduct godoc
// @Summary      Movimientos de un producto
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock-movements/product/{productId} [get]
func (h *StockMovementHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.engine.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockMovementList(list))
}

// ListByDateRange godoc
// @Summary      Movimientos en un rango de fechas (inclusivo)
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "RFC3339"
// @Param        end_date    query  string  true  "RFC3339"
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/date-range [get]
func (h *StockMovementHandler) ListByDateRange(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		return badRequest(c, "INVALID_DATE", "start_date debe ser RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		return badRequest(c, "INVALID_DATE", "end_date debe ser RFC3339")
	}
	list, err := h.engine.ListByDateRange(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockMovementList(list))
}

// ListRecent godoc
// @Summary      Movimientos más recientes
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (1-100)"  default(10)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock-movements/recent [get]
func (h *StockMovementHandler) ListRecent(c *fiber.Ctx) error {
	list, err := h.engine.ListRecent(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockMovementList(list))
}

// StockCardPDF godoc
// @Summary      Kardex del producto en PDF
// @Tags         stock-movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/product/{productId}/stock-card [get]
func (h *StockMovementHandler) StockCardPDF(c *fiber.Ctx) error {
	b, filename, err := h.stockCard.GeneratePDF(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return c.Send(b)
}
