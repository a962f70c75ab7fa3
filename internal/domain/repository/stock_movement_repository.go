package repository

import (
	"context"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la auditoría del libro de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.StockMovement, error)
}
