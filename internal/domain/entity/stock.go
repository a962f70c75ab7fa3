package entity

import "time"

// StockLevel cantidad de un producto en una ubicación. Quantity nunca es negativa.
// La fila se crea con el primer movimiento y nunca se borra (puede quedar en cero).
type StockLevel struct {
	ProductID string
	Location  Location
	Quantity  int64
	UpdatedAt time.Time
}
