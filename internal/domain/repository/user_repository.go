package repository

import (
	"context"

	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// UserRepository define el puerto de lectura de operadores (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListActiveByLocation operadores activos responsables de una ubicación.
	ListActiveByLocation(ctx context.Context, location entity.Location) ([]*entity.User, error)
}
