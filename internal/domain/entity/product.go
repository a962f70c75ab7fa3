package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una prenda o referencia del catálogo.
// La identidad (ID, SKU) es inmutable; los campos descriptivos pueden cambiar.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Category    string // camisas, pantalones, uniformes...
	Description string
	UnitPrice   decimal.Decimal // precio de referencia; valoriza la nota de traslado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
