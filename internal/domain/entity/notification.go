package entity

import "time"

// NotificationTypeInventoryTransfer tipo usado para avisos de traslados pendientes.
const NotificationTypeInventoryTransfer = "inventory_transfer"

// NotificationRecord aviso para un operador. RelatedID es una referencia débil (sin FK)
// al registro indicado por Type; nunca bloquea el ciclo de vida del traslado.
type NotificationRecord struct {
	ID        string
	Recipient string
	Type      string
	RelatedID string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	ReadAt    *time.Time
}
