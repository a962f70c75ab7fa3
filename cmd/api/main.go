// @title                       Confecciones Stock API
// @version                     1.0
// @description                 Inventario multi-ubicación (taller, tránsito, bodega mayorista, tienda) con traslados confirmados en destino.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/confecciones-stock/docs"
	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/application/notification"
	"github.com/jhoicas/confecciones-stock/internal/application/usecase"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
	infrakafka "github.com/jhoicas/confecciones-stock/internal/infrastructure/kafka"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/confecciones-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/confecciones-stock/internal/interfaces/http"
	"github.com/jhoicas/confecciones-stock/pkg/config"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

// storage repositorios y TxRunner del driver elegido.
type storage struct {
	txRunner      inventory.TxRunner
	products      repository.ProductRepository
	stock         repository.StockRepository
	movements     repository.StockMovementRepository
	transfers     repository.TransferRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var publisher inventory.EventPublisher = inventory.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		kp, err := infrakafka.NewPublisher(cfg.Kafka, log)
		if err != nil {
			// sin broker los traslados siguen funcionando; solo no se publican eventos
			log.Error().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("conexión a Kafka")
		} else {
			defer kp.Close()
			publisher = kp
		}
	}

	emitter := notification.NewEmitter(store.users, log)
	transferUC := inventory.NewTransferUseCase(inventory.TransferDeps{
		TxRunner:     store.txRunner,
		ProductRepo:  store.products,
		TransferRepo: store.transfers,
		Emitter:      emitter,
		Publisher:    publisher,
		Slips:        infrapdf.NewSlipGenerator(),
		BusinessName: cfg.App.BusinessName,
		Logger:       log,
	})
	stockUC := inventory.NewStockUseCase(store.txRunner, store.stock, store.movements, store.products, store.transfers, log)
	productUC := usecase.NewProductUseCase(store.products)
	notificationUC := notification.NewUseCase(store.notifications, cfg.Notification.RetentionDays)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Confecciones Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TransferUC:     transferUC,
		StockUC:        stockUC,
		ProductUC:      productUC,
		NotificationUC: notificationUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageDriverMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			txRunner:      s,
			products:      s.Products(),
			stock:         s.Stock(),
			movements:     s.Movements(),
			transfers:     s.Transfers(),
			notifications: s.Notifications(),
			users:         s.Users(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &storage{
		txRunner:      postgres.NewTxRunner(pool),
		products:      postgres.NewProductRepository(pool),
		stock:         postgres.NewStockRepository(pool),
		movements:     postgres.NewStockMovementRepository(pool),
		transfers:     postgres.NewTransferRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		users:         postgres.NewUserRepository(pool),
		close:         pool.Close,
	}, nil
}
