package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

// ApplyDelta calcula el nuevo saldo de una fila del libro (servicio de dominio).
// Un débito que deja el saldo negativo falla con ErrInsufficientStock; un crédito que desborda int64
// falla con ErrInvalidInput.
func ApplyDelta(current, delta int64) (int64, error) {
	next := current + delta
	if delta < 0 && next < 0 {
		return current, domain.ErrInsufficientStock
	}
	if delta > 0 && next < current {
		return current, fmt.Errorf("%w: el saldo excede el máximo representable", domain.ErrInvalidInput)
	}
	return next, nil
}

// Transition valida el paso de un traslado al estado target.
// Solo se admite pending → completed y pending → cancelled; los estados terminales son inmutables.
func Transition(current, target entity.TransferStatus) error {
	if !target.Terminal() {
		return domain.ErrInvalidInput
	}
	if current != entity.TransferStatusPending {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

// DeclaredValue valor declarado de la mercancía trasladada: Cantidad * PrecioUnitario.
func DeclaredValue(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 || unitPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
