package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeTransferOut    = "TRANSFER_OUT"    // débito en origen al iniciar traslado
	MovementTypeTransferIn     = "TRANSFER_IN"     // crédito en destino al confirmar
	MovementTypeTransferReturn = "TRANSFER_RETURN" // reintegro en origen al cancelar
	MovementTypeAdjustment     = "ADJUSTMENT"      // entrada de producción o corrección de conteo
)

// StockMovement registro de auditoría de cada ajuste del libro.
// TransactionID agrupa los movimientos de una misma operación (ID del traslado o del ajuste).
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	Location      Location
	Type          string
	Quantity      int64 // delta con signo
	BalanceAfter  int64
	Reason        string
	CreatedAt     time.Time
	CreatedBy     string
}
