package repository

import (
	"context"
	"time"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// TransferFilter criterios de listado. Location coincide con origen o destino.
type TransferFilter struct {
	Location  entity.Location
	Status    entity.TransferStatus
	ProductID string
	Limit     int
	Offset    int
}

// TransferRepository registro durable (append-mostly) de traslados.
type TransferRepository interface {
	// Create persiste un traslado en estado pending. Valida cantidad y ubicaciones.
	Create(ctx context.Context, transfer *entity.TransferRecord) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.TransferRecord, error)
	// FindPending traslados pendientes con destino location, más recientes primero.
	FindPending(ctx context.Context, location entity.Location) ([]*entity.TransferRecord, error)
	List(ctx context.Context, filter TransferFilter) ([]*entity.TransferRecord, error)
	// SumPendingByProduct cantidad en tránsito (traslados pendientes) de un producto.
	SumPendingByProduct(ctx context.Context, productID string) (int64, error)

	// MarkCompleted y MarkCancelled son actualizaciones condicionales sobre status = pending.
	// Devuelven domain.ErrAlreadyProcessed si el traslado ya no está pendiente
	// y domain.ErrNotFound si no existe.
	MarkCompleted(ctx context.Context, id, confirmedBy string, notes *string, at time.Time) (*entity.TransferRecord, error)
	MarkCancelled(ctx context.Context, id, cancelledBy, reason string, at time.Time) (*entity.TransferRecord, error)
}
