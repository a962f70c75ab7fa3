package entity

import (
	"time"

	"github.com/jhoicas/confecciones-stock/internal/domain"
)

// TransferStatus estado del ciclo de vida de un traslado.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// Terminal indica si el estado ya no admite transiciones.
func (s TransferStatus) Terminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled
}

// Valid indica si el estado es conocido.
func (s TransferStatus) Valid() bool {
	return s == TransferStatusPending || s.Terminal()
}

// TransferRecord solicitud de traslado de una cantidad fija de un producto entre dos ubicaciones.
// Quantity, FromLocation y ToLocation no cambian después de creado.
type TransferRecord struct {
	ID           string
	ProductID    string
	Quantity     int64
	FromLocation Location
	ToLocation   Location
	Status       TransferStatus
	InitiatedBy  string
	TransferDate time.Time
	ConfirmedBy  *string
	ConfirmedAt  *time.Time
	CancelledBy  *string
	CancelledAt  *time.Time
	Notes        *string
}

// Validate revisa las invariantes de creación.
func (t *TransferRecord) Validate() error {
	if t.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if !t.FromLocation.Valid() || !t.ToLocation.Valid() {
		return domain.ErrUnknownLocation
	}
	if t.FromLocation == t.ToLocation {
		return domain.ErrInvalidLocations
	}
	return nil
}

// Pending indica si el traslado sigue en tránsito.
func (t *TransferRecord) Pending() bool {
	return t.Status == TransferStatusPending
}
