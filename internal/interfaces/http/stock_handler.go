package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
)

// StockHandler lecturas del libro de stock y ajustes manuales (protegido).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ProductStock godoc
// @Summary      Stock de un producto por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) ProductStock(c *fiber.Ctx) error {
	out, err := h.uc.ProductStock(c.UserContext(), c.Params("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByLocation godoc
// @Summary      Stock de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Ubicación (por defecto la del operador)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) ByLocation(c *fiber.Ctx) error {
	location := c.Query("location", GetLocation(c))
	if location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location es requerido"})
	}
	limit, offset := page(c)
	out, err := h.uc.ListByLocation(c.UserContext(), location, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Router       /api/stock/{product_id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.ListMovements(c.UserContext(), c.Params("product_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Entrada de producción (delta > 0) o corrección de conteo. Solo dueño.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AdjustStock(c.UserContext(), actorFromCtx(c), inventory.AdjustStockInput{
		ProductID: in.ProductID,
		Location:  in.Location,
		Delta:     in.Delta,
		Reason:    in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
