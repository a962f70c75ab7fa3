package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/notification"
)

// NotificationHandler avisos del operador autenticado.
type NotificationHandler struct {
	uc *notification.UseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.UseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Mis avisos
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídos"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), actorFromCtx(c), c.QueryBool("unread", false), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Cantidad de avisos sin leer
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.UnreadCount(c.UserContext(), actorFromCtx(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"unread": n})
}

// MarkRead godoc
// @Summary      Marcar aviso como leído
// @Description  Idempotente: marcar un aviso ya leído responde 204 igualmente.
// @Tags         notifications
// @Security     Bearer
// @Param        id   path  string  true  "ID del aviso"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), actorFromCtx(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Prune godoc
// @Summary      Purgar avisos leídos
// @Description  Elimina avisos leídos con más de older_than_days días (0 = retención configurada). Solo dueño.
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PruneNotificationsRequest  false  "Antigüedad mínima"
// @Success      200   {object}  dto.PruneNotificationsResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/notifications/prune [post]
func (h *NotificationHandler) Prune(c *fiber.Ctx) error {
	var in dto.PruneNotificationsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	deleted, err := h.uc.PruneRead(c.UserContext(), actorFromCtx(c), in.OlderThanDays)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PruneNotificationsResponse{Deleted: deleted})
}
