package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/application/notification"
	"github.com/jhoicas/confecciones-stock/internal/application/usecase"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC     *inventory.TransferUseCase
	StockUC        *inventory.StockUseCase
	ProductUC      *usecase.ProductUseCase
	NotificationUC *notification.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyOperator := RequireRole(entity.RoleOwner, entity.RoleIncharge, entity.RoleShopkeeper)
	ownerOnly := RequireRole(entity.RoleOwner)

	// Products
	products := protected.Group("/products", anyOperator)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", ownerOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Stock
	stock := protected.Group("/stock", anyOperator)
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.ByLocation)
	stock.Post("/adjustments", ownerOnly, stockHandler.Adjust)
	stock.Get("/:product_id", stockHandler.ProductStock)
	stock.Get("/:product_id/movements", stockHandler.Movements)

	// Transfers. /pending se registra antes de /:id.
	// Cancelar: la ruta admite dueño y encargados; el caso de uso exige además ser dueño,
	// quien inició el traslado o el encargado del origen.
	transfers := protected.Group("/transfers", anyOperator)
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/pending", transferHandler.Pending)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Get("/:id/slip", transferHandler.Slip)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/cancel", RequireRole(entity.RoleOwner, entity.RoleIncharge), transferHandler.Cancel)

	// Notifications
	notifications := protected.Group("/notifications", anyOperator)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/prune", ownerOnly, notificationHandler.Prune)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
}
