// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo, demos) y como doble transaccional en los tests:
// las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	appinventory "github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ appinventory.TxRunner = (*Store)(nil)

type stockKey struct {
	productID string
	location  entity.Location
}

type state struct {
	products      map[string]entity.Product
	stock         map[stockKey]entity.StockLevel
	movements     []entity.StockMovement
	transfers     map[string]entity.TransferRecord
	notifications map[string]entity.NotificationRecord
	users         map[string]entity.User
}

func newState() state {
	return state{
		products:      map[string]entity.Product{},
		stock:         map[stockKey]entity.StockLevel{},
		transfers:     map[string]entity.TransferRecord{},
		notifications: map[string]entity.NotificationRecord{},
		users:         map[string]entity.User{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria. Las operaciones fuera de Run toman el mutex por llamada.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repos atados a una "transacción": el mutex se mantiene durante fn
// y, si fn devuelve error, el estado vuelve a la copia tomada al inicio.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
	notifRepo repository.NotificationRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &conn{store: s, inTx: true}
	if err := fn(&StockRepo{tx}, &StockMovementRepo{tx}, &TransferRepo{tx}, &NotificationRepo{tx}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Products, Stock, Movements, Transfers, Notifications y Users devuelven repos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{&conn{store: s}} }
func (s *Store) Stock() *StockRepo { return &StockRepo{&conn{store: s}} }
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{&conn{store: s}} }
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{&conn{store: s}} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{&conn{store: s}} }
func (s *Store) Users() *UserRepo { return &UserRepo{&conn{store: s}} }

// conn acceso al estado: dentro de Run el mutex ya está tomado.
type conn struct {
	store *Store
	inTx  bool
}

func (c *conn) do(fn func(st *state) error) error {
	if !c.inTx {
		c.store.mu.Lock()
		defer c.store.mu.Unlock()
	}
	return fn(&c.store.st)
}
