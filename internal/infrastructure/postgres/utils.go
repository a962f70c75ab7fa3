package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/confecciones-stock/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. quantity >= 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}

// isInvalidValue verifica si PostgreSQL rechazó un valor de entrada: texto que no es del tipo
// de la columna (22P02, p. ej. un UUID mal formado) o un número fuera de rango (22003).
func isInvalidValue(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02" || pgErr.Code == "22003"
	}
	return false
}

// storageErr envuelve un fallo del driver conservando la causa. Los valores rechazados por
// PostgreSQL son entrada inválida (ErrInvalidInput); el resto es domain.ErrStorage.
func storageErr(op string, err error) error {
	if isInvalidValue(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// limitOrAll convierte limit <= 0 en NULL (LIMIT NULL = sin límite en PostgreSQL).
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
