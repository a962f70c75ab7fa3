package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, recipient, type, related_id, message, is_read, created_at, read_at`

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL (usable con pool o tx).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de avisos. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta un aviso. Dentro de una transacción se usa un savepoint:
// si el INSERT falla la transacción externa sigue utilizable y el traslado se confirma igual.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.NotificationRecord) error {
	const query = `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	return r.withSavepoint(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, query,
			n.ID, n.Recipient, n.Type, n.RelatedID, n.Message, n.IsRead, n.CreatedAt, n.ReadAt,
		); err != nil {
			return storageErr("insert notification", err)
		}
		return nil
	})
}

// withSavepoint ejecuta fn aislado en un savepoint cuando r.q es una transacción.
func (r *NotificationRepo) withSavepoint(ctx context.Context, fn func(q Querier) error) error {
	tx, ok := r.q.(pgx.Tx)
	if !ok {
		return fn(r.q)
	}
	sp, err := tx.Begin(ctx)
	if err != nil {
		return storageErr("savepoint notification", err)
	}
	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return storageErr("release savepoint notification", err)
	}
	return nil
}

// GetByID obtiene un aviso por ID.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.NotificationRecord, error) {
	var n entity.NotificationRecord
	err := r.q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id).Scan(
		&n.ID, &n.Recipient, &n.Type, &n.RelatedID, &n.Message, &n.IsRead, &n.CreatedAt, &n.ReadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get notification", err)
	}
	return &n, nil
}

// MarkRead marca un aviso como leído; repetir la llamada conserva el read_at original.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, $2)
		WHERE id = $1`, id, at)
	if err != nil {
		return storageErr("mark notification read", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkReadByRelated cierra los avisos pendientes de un registro relacionado (aislado en savepoint).
func (r *NotificationRepo) MarkReadByRelated(ctx context.Context, notificationType, relatedID string, at time.Time) (int64, error) {
	var changed int64
	err := r.withSavepoint(ctx, func(q Querier) error {
		cmd, err := q.Exec(ctx, `
			UPDATE notifications SET is_read = TRUE, read_at = $3
			WHERE type = $1 AND related_id = $2 AND is_read = FALSE`,
			notificationType, relatedID, at)
		if err != nil {
			return storageErr("mark related notifications read", err)
		}
		changed = cmd.RowsAffected()
		return nil
	})
	return changed, err
}

// ListByRecipient avisos de un operador, más recientes primero.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) ([]*entity.NotificationRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		recipient, unreadOnly, limitOrAll(limit), offset)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}
	defer rows.Close()
	var list []*entity.NotificationRecord
	for rows.Next() {
		var n entity.NotificationRecord
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Type, &n.RelatedID, &n.Message, &n.IsRead, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, storageErr("scan notification", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// CountUnread avisos sin leer de un operador.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipient string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND is_read = FALSE`, recipient,
	).Scan(&count)
	if err != nil {
		return 0, storageErr("count unread notifications", err)
	}
	return count, nil
}

// DeleteReadBefore purga avisos leídos antes de cutoff.
func (r *NotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND read_at < $1`, cutoff)
	if err != nil {
		return 0, storageErr("prune notifications", err)
	}
	return cmd.RowsAffected(), nil
}
