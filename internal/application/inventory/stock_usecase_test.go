package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

func newStockUC(f *fixture) *inventory.StockUseCase {
	s := f.store
	return inventory.NewStockUseCase(s, s.Stock(), s.Movements(), s.Products(), s.Transfers(), logger.Nop())
}

func TestStock_AdjustStock_EntradaDeProduccion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	uc := newStockUC(f)

	out, err := uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{
		ProductID: productA, Location: "manufacturing", Delta: 120, Reason: "lote 7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120), out.Quantity)
	assert.Equal(t, int64(120), f.qty(t, entity.LocationManufacturing))

	movs, err := uc.ListMovements(ctx, productA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs.Items[0].Type)
	assert.Equal(t, int64(120), movs.Items[0].BalanceAfter)
	assert.Equal(t, "lote 7", movs.Items[0].Reason)
	assert.Equal(t, owner.UserID, movs.Items[0].CreatedBy)
}

func TestStock_AdjustStock_NoDejaSaldoNegativo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	uc := newStockUC(f)

	_, err := uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{
		ProductID: productA, Location: "manufacturing", Delta: -11, Reason: "merma",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.qty(t, entity.LocationManufacturing))

	movs, err := uc.ListMovements(ctx, productA, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs.Items)
}

func TestStock_AdjustStock_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	uc := newStockUC(f)

	_, err := uc.AdjustStock(ctx, userX, inventory.AdjustStockInput{ProductID: productA, Location: "manufacturing", Delta: 1, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: productA, Location: "manufacturing", Delta: 0, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: productA, Location: "manufacturing", Delta: 3, Reason: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: productA, Location: "sotano", Delta: 3, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: unknownID, Location: "retail", Delta: 3, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: "nada", Location: "retail", Delta: 3, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// un crédito que desborda int64 no puede dejar un saldo negativo
	_, err = uc.AdjustStock(ctx, owner, inventory.AdjustStockInput{ProductID: productA, Location: "manufacturing", Delta: math.MaxInt64, Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), f.qty(t, entity.LocationManufacturing))

	movs, err := uc.ListMovements(ctx, productA, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs.Items)
}

func TestStock_ProductStock_TodasLasUbicaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)
	uc := newStockUC(f)
	f.initiate(t, 30, entity.LocationManufacturing, entity.LocationWholesale)

	out, err := uc.ProductStock(ctx, productA)
	require.NoError(t, err)
	assert.Len(t, out.Levels, len(entity.Locations()))
	assert.Equal(t, int64(70), out.Levels["manufacturing"])
	assert.Equal(t, int64(0), out.Levels["retail"])
	assert.Equal(t, int64(30), out.InTransit)
	assert.Equal(t, int64(100), out.Total)

	_, err = uc.ProductStock(ctx, "nada")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ProductStock(ctx, unknownID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ListMovements(ctx, "nada", 10, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStock_GetQuantityYListByLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 40)
	uc := newStockUC(f)

	q, err := uc.GetQuantity(ctx, productA, "Manufacturing ")
	require.NoError(t, err)
	assert.Equal(t, int64(40), q)

	q, err = uc.GetQuantity(ctx, productA, "retail")
	require.NoError(t, err)
	assert.Zero(t, q)

	list, err := uc.ListByLocation(ctx, "manufacturing", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "manufacturing", list.Location)
	require.Len(t, list.Items, 1)
	assert.Equal(t, productA, list.Items[0].ProductID)

	_, err = uc.ListByLocation(ctx, "azotea", 20, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetQuantity(ctx, "prod-a", "retail")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
