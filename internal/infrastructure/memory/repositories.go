package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.TransferRepository      = (*TransferRepo)(nil)
	_ repository.NotificationRepository  = (*NotificationRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo catálogo en memoria.
type ProductRepo struct{ c *conn }

// Create registra un producto; ID o SKU repetidos → ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.c.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.c.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetBySKU obtiene un producto por SKU (nil si no existe).
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.c.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				break
			}
		}
		return nil
	})
	return out, err
}

// List productos ordenados por SKU con paginación.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.c.do(func(st *state) error {
		for _, p := range st.products {
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), err
}

// ── Libro de stock ───────────────────────────────────────────────────────────

// StockRepo libro de stock en memoria.
type StockRepo struct{ c *conn }

// GetQuantity saldo de un producto en una ubicación (0 si no hay fila).
func (r *StockRepo) GetQuantity(_ context.Context, productID string, location entity.Location) (int64, error) {
	var q int64
	err := r.c.do(func(st *state) error {
		q = st.stock[stockKey{productID, location}].Quantity
		return nil
	})
	return q, err
}

// Adjust lee y escribe bajo el mismo mutex, de modo que el chequeo de saldo nunca usa un valor viejo.
func (r *StockRepo) Adjust(_ context.Context, productID string, location entity.Location, delta int64) (int64, error) {
	var balance int64
	err := r.c.do(func(st *state) error {
		key := stockKey{productID, location}
		level := st.stock[key]
		next, err := inventory.ApplyDelta(level.Quantity, delta)
		if err != nil {
			return err
		}
		st.stock[key] = entity.StockLevel{ProductID: productID, Location: location, Quantity: next, UpdatedAt: time.Now()}
		balance = next
		return nil
	})
	return balance, err
}

// ListByProduct saldos de un producto en todas las ubicaciones con fila.
func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	err := r.c.do(func(st *state) error {
		for k, v := range st.stock {
			if k.productID == productID {
				v := v
				list = append(list, &v)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Location < list[j].Location })
	return list, err
}

// ListByLocation saldos de una ubicación con paginación.
func (r *StockRepo) ListByLocation(_ context.Context, location entity.Location, limit, offset int) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	err := r.c.do(func(st *state) error {
		for k, v := range st.stock {
			if k.location == location {
				v := v
				list = append(list, &v)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return page(list, limit, offset), err
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// StockMovementRepo auditoría del libro en memoria.
type StockMovementRepo struct{ c *conn }

// Create agrega un movimiento al historial.
func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.c.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ListByProduct movimientos de un producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := r.c.do(func(st *state) error {
		// más reciente primero
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; m.ProductID == productID {
				list = append(list, &m)
			}
		}
		return nil
	})
	return page(list, limit, offset), err
}

// ListByTransaction movimientos de una misma operación (traslado o ajuste).
func (r *StockMovementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := r.c.do(func(st *state) error {
		for _, m := range st.movements {
			if m.TransactionID == transactionID {
				m := m
				list = append(list, &m)
			}
		}
		return nil
	})
	return list, err
}

// ── Traslados ────────────────────────────────────────────────────────────────

// TransferRepo registro de traslados en memoria.
type TransferRepo struct{ c *conn }

// Create persiste un traslado en estado pending.
func (r *TransferRepo) Create(_ context.Context, t *entity.TransferRecord) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.c.do(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		t.Status = entity.TransferStatusPending
		st.transfers[t.ID] = *t
		return nil
	})
}

// GetByID obtiene un traslado por ID (nil si no existe).
func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.TransferRecord, error) {
	var out *entity.TransferRecord
	err := r.c.do(func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// FindPending traslados pendientes de recibir en location, más recientes primero.
func (r *TransferRepo) FindPending(ctx context.Context, location entity.Location) ([]*entity.TransferRecord, error) {
	var list []*entity.TransferRecord
	err := r.c.do(func(st *state) error {
		for _, t := range st.transfers {
			if t.ToLocation == location && t.Status == entity.TransferStatusPending {
				t := t
				list = append(list, &t)
			}
		}
		return nil
	})
	sortNewestFirst(list)
	return list, err
}

// List traslados filtrados; la ubicación coincide con origen o destino.
func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.TransferRecord, error) {
	var list []*entity.TransferRecord
	err := r.c.do(func(st *state) error {
		for _, t := range st.transfers {
			if f.Location != "" && t.FromLocation != f.Location && t.ToLocation != f.Location {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.ProductID != "" && t.ProductID != f.ProductID {
				continue
			}
			t := t
			list = append(list, &t)
		}
		return nil
	})
	sortNewestFirst(list)
	return page(list, f.Limit, f.Offset), err
}

// SumPendingByProduct cantidad en tránsito (traslados pendientes) de un producto.
func (r *TransferRepo) SumPendingByProduct(_ context.Context, productID string) (int64, error) {
	var sum int64
	err := r.c.do(func(st *state) error {
		for _, t := range st.transfers {
			if t.ProductID == productID && t.Status == entity.TransferStatusPending {
				sum += t.Quantity
			}
		}
		return nil
	})
	return sum, err
}

// MarkCompleted pending → completed; ErrAlreadyProcessed si ya no está pendiente.
func (r *TransferRepo) MarkCompleted(_ context.Context, id, confirmedBy string, notes *string, at time.Time) (*entity.TransferRecord, error) {
	return r.finish(id, entity.TransferStatusCompleted, func(t *entity.TransferRecord) {
		t.ConfirmedBy = &confirmedBy
		t.ConfirmedAt = &at
		if notes != nil {
			t.Notes = notes
		}
	})
}

// MarkCancelled pending → cancelled; reason vacío conserva las notas originales.
func (r *TransferRepo) MarkCancelled(_ context.Context, id, cancelledBy, reason string, at time.Time) (*entity.TransferRecord, error) {
	return r.finish(id, entity.TransferStatusCancelled, func(t *entity.TransferRecord) {
		t.CancelledBy = &cancelledBy
		t.CancelledAt = &at
		if reason != "" {
			t.Notes = &reason
		}
	})
}

// finish equivalente al UPDATE ... WHERE status = 'pending' de PostgreSQL.
func (r *TransferRepo) finish(id string, target entity.TransferStatus, apply func(*entity.TransferRecord)) (*entity.TransferRecord, error) {
	var out *entity.TransferRecord
	err := r.c.do(func(st *state) error {
		t, ok := st.transfers[id]
		if !ok {
			return domain.ErrNotFound
		}
		if err := inventory.Transition(t.Status, target); err != nil {
			return err
		}
		t.Status = target
		apply(&t)
		st.transfers[id] = t
		out = &t
		return nil
	})
	return out, err
}

// ── Avisos ───────────────────────────────────────────────────────────────────

// NotificationRepo avisos en memoria.
type NotificationRepo struct{ c *conn }

// Create inserta un aviso.
func (r *NotificationRepo) Create(_ context.Context, n *entity.NotificationRecord) error {
	return r.c.do(func(st *state) error {
		st.notifications[n.ID] = *n
		return nil
	})
}

// GetByID obtiene un aviso por ID (nil si no existe).
func (r *NotificationRepo) GetByID(_ context.Context, id string) (*entity.NotificationRecord, error) {
	var out *entity.NotificationRecord
	err := r.c.do(func(st *state) error {
		if n, ok := st.notifications[id]; ok {
			out = &n
		}
		return nil
	})
	return out, err
}

// MarkRead marca un aviso como leído; si ya lo estaba no cambia read_at.
func (r *NotificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	return r.c.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return domain.ErrNotFound
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true
		n.ReadAt = &at
		st.notifications[id] = n
		return nil
	})
}

// MarkReadByRelated marca como leídos los avisos de un registro relacionado.
func (r *NotificationRepo) MarkReadByRelated(_ context.Context, notificationType, relatedID string, at time.Time) (int64, error) {
	var changed int64
	err := r.c.do(func(st *state) error {
		for id, n := range st.notifications {
			if n.Type == notificationType && n.RelatedID == relatedID && !n.IsRead {
				n.IsRead = true
				n.ReadAt = &at
				st.notifications[id] = n
				changed++
			}
		}
		return nil
	})
	return changed, err
}

// ListByRecipient avisos de un operador, más recientes primero.
func (r *NotificationRepo) ListByRecipient(_ context.Context, recipient string, unreadOnly bool, limit, offset int) ([]*entity.NotificationRecord, error) {
	var list []*entity.NotificationRecord
	err := r.c.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.Recipient != recipient || (unreadOnly && n.IsRead) {
				continue
			}
			n := n
			list = append(list, &n)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), err
}

// CountUnread avisos sin leer de un operador.
func (r *NotificationRepo) CountUnread(_ context.Context, recipient string) (int64, error) {
	var count int64
	err := r.c.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.Recipient == recipient && !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, err
}

// DeleteReadBefore elimina avisos leídos antes de cutoff; los no leídos se conservan.
func (r *NotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.c.do(func(st *state) error {
		for id, n := range st.notifications {
			if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(cutoff) {
				delete(st.notifications, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// ── Operadores ───────────────────────────────────────────────────────────────

// UserRepo operadores en memoria.
type UserRepo struct{ c *conn }

// Create registra un operador.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.c.do(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = *u
		return nil
	})
}

// GetByID obtiene un operador por ID (nil si no existe).
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.c.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// ListActiveByLocation operadores activos responsables de una ubicación.
func (r *UserRepo) ListActiveByLocation(_ context.Context, location entity.Location) ([]*entity.User, error) {
	var list []*entity.User
	err := r.c.do(func(st *state) error {
		for _, u := range st.users {
			if u.Location == location && u.Status == "active" {
				u := u
				list = append(list, &u)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func sortNewestFirst(list []*entity.TransferRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].TransferDate.Equal(list[j].TransferDate) {
			return list[i].ID > list[j].ID
		}
		return list[i].TransferDate.After(list[j].TransferDate)
	})
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
