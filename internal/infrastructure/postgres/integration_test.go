package postgres

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
	"github.com/jhoicas/confecciones-stock/pkg/config"
)

// Requiere una base PostgreSQL desechable: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func createProduct(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, NewProductRepository(pool).Create(context.Background(), &entity.Product{
		ID: id, SKU: "IT-" + id[:8], Name: "Camisa integración", UnitPrice: decimal.NewFromInt(1000),
		CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func createPending(t *testing.T, pool *pgxpool.Pool, productID string, qty int64) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, NewTransferRepository(pool).Create(context.Background(), &entity.TransferRecord{
		ID: id, ProductID: productID, Quantity: qty,
		FromLocation: entity.LocationManufacturing, ToLocation: entity.LocationWholesale,
		Status: entity.TransferStatusPending, InitiatedBy: "u-it", TransferDate: time.Now(),
	}))
	return id
}

func TestIntegration_Adjust_SinFila(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := createProduct(t, pool)
	stock := NewStockRepository(pool)

	_, err := stock.Adjust(ctx, productID, entity.LocationRetail, -1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	q, err := stock.GetQuantity(ctx, productID, entity.LocationRetail)
	require.NoError(t, err)
	assert.Zero(t, q)

	balance, err := stock.Adjust(ctx, productID, entity.LocationRetail, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)

	_, err = stock.Adjust(ctx, productID, entity.LocationRetail, math.MaxInt64)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	q, err = stock.GetQuantity(ctx, productID, entity.LocationRetail)
	require.NoError(t, err)
	assert.Equal(t, int64(5), q)
}

func TestIntegration_IDMalFormadoEsEntradaInvalida(t *testing.T) {
	pool := testPool(t)
	_, err := NewTransferRepository(pool).GetByID(context.Background(), "abc")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStorage)
}

func TestIntegration_MarkCompleted_UnaSolaConfirmacionGana(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := createProduct(t, pool)
	transferID := createPending(t, pool, productID, 12)
	runner := NewTxRunner(pool)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = runner.Run(ctx, func(
				stockRepo repository.StockRepository,
				_ repository.StockMovementRepository,
				transferRepo repository.TransferRepository,
				_ repository.NotificationRepository,
			) error {
				if _, err := stockRepo.Adjust(ctx, productID, entity.LocationWholesale, 12); err != nil {
					return err
				}
				_, err := transferRepo.MarkCompleted(ctx, transferID, "u-it", nil, time.Now())
				return err
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	}
	assert.Equal(t, 1, wins)

	q, err := NewStockRepository(pool).GetQuantity(ctx, productID, entity.LocationWholesale)
	require.NoError(t, err)
	assert.Equal(t, int64(12), q, "los créditos perdedores se revierten")

	_, err = NewTransferRepository(pool).MarkCancelled(ctx, uuid.New().String(), "u-it", "", time.Now())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegration_AvisoFallidoNoAbortaTransaccion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := createProduct(t, pool)
	transferID := uuid.New().String()

	err := NewTxRunner(pool).Run(ctx, func(
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		notifRepo repository.NotificationRepository,
	) error {
		// id no UUID: el INSERT falla dentro del savepoint
		notifErr := notifRepo.Create(ctx, &entity.NotificationRecord{
			ID: "no-uuid", Recipient: "u-it", Type: entity.NotificationTypeInventoryTransfer,
			RelatedID: transferID, CreatedAt: time.Now(),
		})
		if notifErr == nil {
			return errors.New("se esperaba fallo del aviso")
		}
		return transferRepo.Create(ctx, &entity.TransferRecord{
			ID: transferID, ProductID: productID, Quantity: 1,
			FromLocation: entity.LocationManufacturing, ToLocation: entity.LocationRetail,
			Status: entity.TransferStatusPending, InitiatedBy: "u-it", TransferDate: time.Now(),
		})
	})
	require.NoError(t, err)

	got, err := NewTransferRepository(pool).GetByID(ctx, transferID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.TransferStatusPending, got.Status)
}
