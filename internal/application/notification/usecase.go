package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

// UseCase consulta y gestión de avisos por parte del destinatario.
type UseCase struct {
	repo          repository.NotificationRepository
	retentionDays int
	now           func() time.Time
}

// NewUseCase construye el caso de uso. retentionDays es el mínimo por defecto para PruneRead.
func NewUseCase(repo repository.NotificationRepository, retentionDays int) *UseCase {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &UseCase{repo: repo, retentionDays: retentionDays, now: time.Now}
}

// MarkRead marca un aviso como leído. Idempotente; solo el destinatario puede hacerlo.
func (uc *UseCase) MarkRead(ctx context.Context, actor entity.Actor, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	id, ok := entity.ParseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	if n.Recipient != actor.UserID {
		return domain.ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	return uc.repo.MarkRead(ctx, id, uc.now())
}

// List avisos del actor, más recientes primero.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error) {
	list, err := uc.repo.ListByRecipient(ctx, actor.UserID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationResponse(n))
	}
	return &dto.NotificationListResponse{
		Items:  items,
		Unread: unread,
		Page:   dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UnreadCount cantidad de avisos sin leer del actor.
func (uc *UseCase) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	return uc.repo.CountUnread(ctx, actor.UserID)
}

// PruneRead elimina avisos leídos con más de olderThanDays días (0 = retención configurada).
// Solo el dueño puede purgar.
func (uc *UseCase) PruneRead(ctx context.Context, actor entity.Actor, olderThanDays int) (int64, error) {
	if !actor.IsOwner() {
		return 0, domain.ErrForbidden
	}
	if olderThanDays < 0 {
		return 0, fmt.Errorf("%w: older_than_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if olderThanDays == 0 {
		olderThanDays = uc.retentionDays
	}
	cutoff := uc.now().AddDate(0, 0, -olderThanDays)
	return uc.repo.DeleteReadBefore(ctx, cutoff)
}

func toNotificationResponse(n *entity.NotificationRecord) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
