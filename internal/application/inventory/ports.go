package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el libro de stock, los traslados y sus avisos: Commit si fn devuelve nil,
// Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		notifRepo repository.NotificationRepository,
	) error) error
}

// Tipos de evento publicados tras cada commit.
const (
	EventTransferInitiated = "transfer.initiated"
	EventTransferCompleted = "transfer.completed"
	EventTransferCancelled = "transfer.cancelled"
)

// TransferEvent evento de ciclo de vida de un traslado (post-commit).
type TransferEvent struct {
	Type       string
	OccurredAt time.Time
	ActorID    string
	Transfer   entity.TransferRecord
}

// EventPublisher publica eventos de traslado. Es best-effort: el caso de uso registra el error y sigue.
type EventPublisher interface {
	Publish(ctx context.Context, event TransferEvent) error
}

// NoopPublisher se usa cuando no hay broker configurado.
type NoopPublisher struct{}

// Publish no hace nada.
func (NoopPublisher) Publish(context.Context, TransferEvent) error { return nil }

// SlipData datos que necesita el generador de la nota de traslado.
type SlipData struct {
	BusinessName string
	Transfer     *entity.TransferRecord
	Product      *entity.Product
	GeneratedAt  time.Time
}

// SlipGenerator genera el PDF de la nota de traslado.
type SlipGenerator interface {
	GenerateTransferSlip(ctx context.Context, data SlipData) ([]byte, error)
}
