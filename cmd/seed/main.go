// seed aplica el esquema y carga datos de desarrollo: catálogo, un operador por ubicación
// y la producción inicial del taller. Imprime un token JWT por operador para probar la API.
//
// Uso: go run ./cmd/seed [-migrate] [-units 120]
// Lee la conexión de las mismas variables que la API (DATABASE_URL o DB_*). Es idempotente:
// los productos y operadores existentes se omiten y no vuelven a recibir stock.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/application/usecase"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/confecciones-stock/pkg/config"
	"github.com/jhoicas/confecciones-stock/pkg/jwt"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

var seedUsers = []entity.User{
	{ID: "00000000-0000-0000-0000-0000000000a0", Email: "dueno@confecciones.local", Name: "Dueño", Role: entity.RoleOwner},
	{ID: "00000000-0000-0000-0000-0000000000a1", Email: "taller@confecciones.local", Name: "Encargado taller", Role: entity.RoleIncharge, Location: entity.LocationManufacturing},
	{ID: "00000000-0000-0000-0000-0000000000a2", Email: "transito@confecciones.local", Name: "Conductor", Role: entity.RoleIncharge, Location: entity.LocationTransit},
	{ID: "00000000-0000-0000-0000-0000000000a3", Email: "mayorista@confecciones.local", Name: "Encargado bodega", Role: entity.RoleIncharge, Location: entity.LocationWholesale},
	{ID: "00000000-0000-0000-0000-0000000000a4", Email: "tienda@confecciones.local", Name: "Tendero", Role: entity.RoleShopkeeper, Location: entity.LocationRetail},
}

var seedProducts = []dto.CreateProductRequest{
	{SKU: "CAM-OXF-M", Name: "Camisa oxford manga larga", Category: "camisas", UnitPrice: decimal.NewFromInt(45000)},
	{SKU: "PAN-DRI-32", Name: "Pantalón dril talla 32", Category: "pantalones", UnitPrice: decimal.NewFromInt(62000)},
	{SKU: "UNI-ESC-10", Name: "Uniforme escolar talla 10", Category: "uniformes", UnitPrice: decimal.NewFromInt(78500)},
	{SKU: "JEA-CLA-30", Name: "Jean clásico talla 30", Category: "pantalones", UnitPrice: decimal.NewFromInt(69900)},
}

func main() {
	migrate := flag.Bool("migrate", false, "aplicar schema.sql antes de cargar datos")
	units := flag.Int64("units", 120, "unidades iniciales por producto en el taller")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("cargar configuración", err)
	}
	if cfg.JWT.Secret == "" {
		fatal("JWT_SECRET", errors.New("se requiere para imprimir los tokens de prueba"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fatal("conexión a PostgreSQL", err)
	}
	defer pool.Close()

	if *migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			fatal("aplicar esquema", err)
		}
		fmt.Println("esquema aplicado")
	}

	owner := entity.Actor{UserID: seedUsers[0].ID, Role: entity.RoleOwner}
	users := postgres.NewUserRepository(pool)
	now := time.Now()
	for _, u := range seedUsers {
		u := u
		u.Status = "active"
		u.CreatedAt, u.UpdatedAt = now, now
		switch err := users.Create(ctx, &u); {
		case errors.Is(err, domain.ErrDuplicate):
			fmt.Printf("operador %s ya existe\n", u.Email)
		case err != nil:
			fatal("crear operador "+u.Email, err)
		}
	}

	products := postgres.NewProductRepository(pool)
	productUC := usecase.NewProductUseCase(products)
	stockUC := inventory.NewStockUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewStockRepository(pool),
		postgres.NewStockMovementRepository(pool),
		products,
		postgres.NewTransferRepository(pool),
		logger.Nop(),
	)
	for _, p := range seedProducts {
		created, err := productUC.Create(ctx, owner, p)
		if errors.Is(err, domain.ErrDuplicate) {
			fmt.Printf("producto %s ya existe\n", p.SKU)
			continue
		}
		if err != nil {
			fatal("crear producto "+p.SKU, err)
		}
		if *units > 0 {
			if _, err := stockUC.AdjustStock(ctx, owner, inventory.AdjustStockInput{
				ProductID: created.ID,
				Location:  entity.LocationManufacturing.String(),
				Delta:     *units,
				Reason:    "carga inicial",
			}); err != nil {
				fatal("stock inicial "+p.SKU, err)
			}
		}
		fmt.Printf("producto %s (%s) con %d unidades en taller\n", created.SKU, created.ID, *units)
	}

	fmt.Println("\ntokens de desarrollo:")
	for _, u := range seedUsers {
		tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: u.ID, Role: u.Role, Location: u.Location.String()}, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fatal("generar token", err)
		}
		fmt.Printf("%-10s %-14s %s\n", u.Role, u.Location, tok)
	}
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
