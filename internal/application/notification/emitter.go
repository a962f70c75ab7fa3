package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

// Emitter avisa a los operadores de destino que tienen un traslado pendiente.
// Es best-effort: ningún fallo se propaga al flujo del traslado, solo se registra.
type Emitter struct {
	users repository.UserRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewEmitter construye el emisor.
func NewEmitter(users repository.UserRepository, log *logger.Logger) *Emitter {
	return &Emitter{users: users, log: log.Named("notification"), now: time.Now}
}

// Recipients resuelve los operadores activos de una ubicación.
// Un error de consulta se registra y se trata como "sin destinatarios".
func (e *Emitter) Recipients(ctx context.Context, location entity.Location) []string {
	users, err := e.users.ListActiveByLocation(ctx, location)
	if err != nil {
		e.log.Warn().Err(err).Str("location", location.String()).Msg("no se pudieron resolver destinatarios")
		return nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		e.log.Warn().Str("location", location.String()).Msg("ubicación sin operadores activos; el traslado queda sin aviso")
	}
	return ids
}

// Notify crea un aviso para recipient. Devuelve true si se creó; nunca devuelve error.
func (e *Emitter) Notify(ctx context.Context, repo repository.NotificationRepository, recipient string, t *entity.TransferRecord, productLabel string) bool {
	n := &entity.NotificationRecord{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Type:      entity.NotificationTypeInventoryTransfer,
		RelatedID: t.ID,
		Message:   transferMessage(t, productLabel),
		CreatedAt: e.now(),
	}
	if err := repo.Create(ctx, n); err != nil {
		e.log.Warn().Err(err).
			Str("transfer_id", t.ID).
			Str("recipient", recipient).
			Msg("aviso de traslado no creado")
		return false
	}
	return true
}

// NotifyAll avisa a cada destinatario y devuelve cuántos avisos se crearon.
func (e *Emitter) NotifyAll(ctx context.Context, repo repository.NotificationRepository, recipients []string, t *entity.TransferRecord, productLabel string) int {
	created := 0
	for _, r := range recipients {
		if e.Notify(ctx, repo, r, t, productLabel) {
			created++
		}
	}
	return created
}

// Resolve marca como leídos los avisos de un traslado que ya no está pendiente. Best-effort.
func (e *Emitter) Resolve(ctx context.Context, repo repository.NotificationRepository, transferID string) {
	if _, err := repo.MarkReadByRelated(ctx, entity.NotificationTypeInventoryTransfer, transferID, e.now()); err != nil {
		e.log.Warn().Err(err).Str("transfer_id", transferID).Msg("no se pudieron marcar avisos como leídos")
	}
}

func transferMessage(t *entity.TransferRecord, productLabel string) string {
	return fmt.Sprintf("Traslado pendiente: %d x %s desde %s hacia %s",
		t.Quantity, productLabel, t.FromLocation, t.ToLocation)
}
