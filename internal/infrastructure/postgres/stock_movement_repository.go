package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, transaction_id, product_id, location, type, quantity, balance_after, reason, created_at, created_by`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		movement.ID, movement.TransactionID, movement.ProductID, string(movement.Location),
		movement.Type, movement.Quantity, movement.BalanceAfter, movement.Reason,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		return storageErr("create stock movement", err)
	}
	return nil
}

// ListByProduct movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		productID, limitOrAll(limit), offset)
}

// ListByTransaction movimientos de una misma operación (traslado o ajuste).
func (r *StockMovementRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements WHERE transaction_id = $1 ORDER BY created_at`,
		transactionID)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var loc string
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &loc, &m.Type,
			&m.Quantity, &m.BalanceAfter, &m.Reason, &m.CreatedAt, &createdBy); err != nil {
			return nil, storageErr("scan stock movement", err)
		}
		m.Location = entity.Location(loc)
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
