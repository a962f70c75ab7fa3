package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, product_id, quantity, from_location, to_location, status, initiated_by, transfer_date,
	confirmed_by, confirmed_at, cancelled_by, cancelled_at, notes`

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste un traslado en estado pending.
func (r *TransferRepo) Create(ctx context.Context, t *entity.TransferRecord) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Status = entity.TransferStatusPending
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_transfers (id, product_id, quantity, from_location, to_location, status, initiated_by, transfer_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.ProductID, t.Quantity, string(t.FromLocation), string(t.ToLocation),
		string(t.Status), t.InitiatedBy, t.TransferDate, t.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert transfer", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.TransferRecord, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get transfer", err)
	}
	return t, nil
}

// FindPending traslados pendientes con destino location.
func (r *TransferRepo) FindPending(ctx context.Context, location entity.Location) ([]*entity.TransferRecord, error) {
	return r.list(ctx, `
		SELECT `+transferColumns+`
		FROM inventory_transfers
		WHERE to_location = $1 AND status = 'pending'
		ORDER BY transfer_date DESC, id DESC`, string(location))
}

// List lista traslados con filtros opcionales.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Location != "" {
		query += fmt.Sprintf(" AND (from_location = $%d OR to_location = $%d)", pos, pos)
		args = append(args, string(f.Location))
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(f.Status))
		pos++
	}
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY transfer_date DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitOrAll(f.Limit), f.Offset)
	return r.list(ctx, query, args...)
}

// SumPendingByProduct cantidad en tránsito de un producto.
func (r *TransferRepo) SumPendingByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint FROM inventory_transfers
		WHERE product_id = $1 AND status = 'pending'`, productID).Scan(&sum)
	if err != nil {
		return 0, storageErr("sum pending transfers", err)
	}
	return sum, nil
}

// MarkCompleted pending → completed con un UPDATE condicional: dos confirmaciones concurrentes
// no pueden ganar ambas porque la segunda ya no encuentra status = 'pending'.
func (r *TransferRepo) MarkCompleted(ctx context.Context, id, confirmedBy string, notes *string, at time.Time) (*entity.TransferRecord, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `
		UPDATE inventory_transfers
		SET status = 'completed', confirmed_by = $2, confirmed_at = $3, notes = COALESCE($4, notes)
		WHERE id = $1 AND status = 'pending'
		RETURNING `+transferColumns,
		id, confirmedBy, at, notes,
	))
	if err != nil {
		return nil, r.casError(ctx, id, err)
	}
	return t, nil
}

// MarkCancelled pending → cancelled; reason vacío conserva las notas originales.
func (r *TransferRepo) MarkCancelled(ctx context.Context, id, cancelledBy, reason string, at time.Time) (*entity.TransferRecord, error) {
	var notes *string
	if reason != "" {
		notes = &reason
	}
	t, err := scanTransfer(r.q.QueryRow(ctx, `
		UPDATE inventory_transfers
		SET status = 'cancelled', cancelled_by = $2, cancelled_at = $3, notes = COALESCE($4, notes)
		WHERE id = $1 AND status = 'pending'
		RETURNING `+transferColumns,
		id, cancelledBy, at, notes,
	))
	if err != nil {
		return nil, r.casError(ctx, id, err)
	}
	return t, nil
}

// casError distingue "no existe" de "ya procesado" cuando el UPDATE condicional no afectó filas.
func (r *TransferRepo) casError(ctx context.Context, id string, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return storageErr("update transfer status", err)
	}
	var status string
	err = r.q.QueryRow(ctx, `SELECT status FROM inventory_transfers WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return storageErr("get transfer status", err)
	}
	return domain.ErrAlreadyProcessed
}

func (r *TransferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.TransferRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list transfers", err)
	}
	defer rows.Close()
	var list []*entity.TransferRecord
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, storageErr("scan transfer", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.TransferRecord, error) {
	var t entity.TransferRecord
	var from, to, status string
	if err := row.Scan(&t.ID, &t.ProductID, &t.Quantity, &from, &to, &status, &t.InitiatedBy, &t.TransferDate,
		&t.ConfirmedBy, &t.ConfirmedAt, &t.CancelledBy, &t.CancelledAt, &t.Notes); err != nil {
		return nil, err
	}
	t.FromLocation = entity.Location(from)
	t.ToLocation = entity.Location(to)
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
