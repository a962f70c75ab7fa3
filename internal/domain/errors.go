package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrAlreadyProcessed el traslado ya no está pendiente (completado o cancelado).
	ErrAlreadyProcessed = fmt.Errorf("%w: el traslado ya fue procesado", ErrConflict)

	// ErrStorage fallo de infraestructura al leer o confirmar en la base de datos.
	ErrStorage = errors.New("fallo de almacenamiento")
)

// Variantes de ErrInvalidInput; errors.Is(err, ErrInvalidInput) sigue siendo true.
var (
	ErrInvalidQuantity  = fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidInput)
	ErrInvalidLocations = fmt.Errorf("%w: origen y destino deben ser distintos", ErrInvalidInput)
	ErrUnknownLocation  = fmt.Errorf("%w: ubicación desconocida", ErrInvalidInput)
)
