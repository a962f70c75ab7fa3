package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
)

// TransferHandler maneja el ciclo de vida de los traslados (protegido).
type TransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Iniciar traslado
// @Description  Descuenta el stock de origen y deja el traslado pendiente de recibo en destino.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Producto, cantidad, origen y destino"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.InitiateTransfer(c.UserContext(), actorFromCtx(c), inventory.InitiateTransferInput{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location    query  string  false  "Origen o destino"
// @Param        status      query  string  false  "pending | completed | cancelled"
// @Param        product_id  query  string  false  "Producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.ListTransfers(c.UserContext(), inventory.ListTransfersInput{
		Location:  c.Query("location"),
		Status:    c.Query("status"),
		ProductID: c.Query("product_id"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pending godoc
// @Summary      Traslados pendientes de recibir
// @Description  Sin location se usa la ubicación del operador autenticado.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "Ubicación de destino"
// @Success      200  {array}   dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers/pending [get]
func (h *TransferHandler) Pending(c *fiber.Ctx) error {
	location := c.Query("location", GetLocation(c))
	if location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location es requerido"})
	}
	out, err := h.uc.FindPending(c.UserContext(), location)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetTransfer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar recibo
// @Description  Acredita el destino y cierra el traslado. Una segunda confirmación responde 409 ALREADY_PROCESSED.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del traslado"
// @Param        body  body  dto.ConfirmTransferRequest  false  "Notas de recibo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_PROCESSED"
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.ConfirmReceipt(c.UserContext(), actorFromCtx(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  Reintegra el stock al origen. Solo dueño, quien lo inició o el encargado del origen.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_PROCESSED"
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.CancelTransfer(c.UserContext(), actorFromCtx(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Slip godoc
// @Summary      Nota de traslado (PDF)
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/slip [get]
func (h *TransferHandler) Slip(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.TransferSlip(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
