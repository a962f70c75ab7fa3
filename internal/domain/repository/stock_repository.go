package repository

import (
	"context"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// StockRepository es el libro de stock por producto+ubicación.
// Usado dentro de transacciones para garantizar consistencia con los traslados.
type StockRepository interface {
	// GetQuantity devuelve 0 si aún no hay fila; nunca falla por "no encontrado".
	GetQuantity(ctx context.Context, productID string, location entity.Location) (int64, error)
	// Adjust aplica delta de forma atómica y devuelve el nuevo saldo.
	// Falla con domain.ErrInsufficientStock si un débito dejaría el saldo negativo.
	Adjust(ctx context.Context, productID string, location entity.Location, delta int64) (int64, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
	ListByLocation(ctx context.Context, location entity.Location, limit, offset int) ([]*entity.StockLevel, error)
}
