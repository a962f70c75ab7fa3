package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para operadores.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo operador.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, name, role, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var loc *string
	if user.Location != "" {
		s := string(user.Location)
		loc = &s
	}
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Role, loc, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un operador por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, email, name, role, location, status, created_at, updated_at
		FROM users WHERE id = $1`
	u, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

// ListActiveByLocation operadores activos asignados a una ubicación.
func (r *UserRepo) ListActiveByLocation(ctx context.Context, location entity.Location) ([]*entity.User, error) {
	query := `
		SELECT id, email, name, role, location, status, created_at, updated_at
		FROM users WHERE location = $1 AND status = 'active' ORDER BY id`
	rows, err := r.q.Query(ctx, query, string(location))
	if err != nil {
		return nil, storageErr("list users by location", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan user", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var loc *string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &loc, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if loc != nil {
		u.Location = entity.Location(*loc)
	}
	return &u, nil
}
