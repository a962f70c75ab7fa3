package repository

import (
	"context"
	"time"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para avisos a operadores.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.NotificationRecord) error
	GetByID(ctx context.Context, id string) (*entity.NotificationRecord, error)
	// MarkRead es idempotente: marcar dos veces no cambia read_at ni falla.
	MarkRead(ctx context.Context, id string, at time.Time) error
	// MarkReadByRelated marca leídos todos los avisos de (type, relatedID); devuelve cuántos cambiaron.
	MarkReadByRelated(ctx context.Context, notificationType, relatedID string, at time.Time) (int64, error)
	ListByRecipient(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) ([]*entity.NotificationRecord, error)
	CountUnread(ctx context.Context, recipient string) (int64, error)
	// DeleteReadBefore purga avisos leídos antes de cutoff (retención).
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
