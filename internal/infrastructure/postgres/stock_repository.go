package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetQuantity obtiene el stock actual de un producto en una ubicación (0 si no hay fila).
func (r *StockRepo) GetQuantity(ctx context.Context, productID string, location entity.Location) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM stock_levels WHERE product_id = $1 AND location = $2`,
		productID, string(location),
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, storageErr("get stock", err)
	}
	return qty, nil
}

// Adjust aplica delta en una sola sentencia.
// Débito: UPDATE condicionado a que el saldo resultante no sea negativo; sin fila afectada → stock insuficiente.
// Crédito: upsert que crea la fila con el primer movimiento.
func (r *StockRepo) Adjust(ctx context.Context, productID string, location entity.Location, delta int64) (int64, error) {
	var balance int64
	if delta < 0 {
		err := r.q.QueryRow(ctx, `
			UPDATE stock_levels SET quantity = quantity + $3, updated_at = now()
			WHERE product_id = $1 AND location = $2 AND quantity + $3 >= 0
			RETURNING quantity`,
			productID, string(location), delta,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
				return 0, domain.ErrInsufficientStock
			}
			return 0, storageErr("debit stock", err)
		}
		return balance, nil
	}

	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_levels (product_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`,
		productID, string(location), delta,
	).Scan(&balance)
	if err != nil {
		return 0, storageErr("credit stock", err)
	}
	return balance, nil
}

// ListByProduct saldos de un producto en todas las ubicaciones con fila.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, `
		SELECT product_id, location, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 ORDER BY location`, productID)
}

// ListByLocation saldos de una ubicación con paginación.
func (r *StockRepo) ListByLocation(ctx context.Context, location entity.Location, limit, offset int) ([]*entity.StockLevel, error) {
	return r.list(ctx, `
		SELECT product_id, location, quantity, updated_at
		FROM stock_levels WHERE location = $1 ORDER BY product_id LIMIT $2 OFFSET $3`,
		string(location), limitOrAll(limit), offset)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list stock", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		var loc string
		if err := rows.Scan(&s.ProductID, &loc, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, storageErr("scan stock", err)
		}
		s.Location = entity.Location(loc)
		list = append(list, &s)
	}
	return list, rows.Err()
}
