package dto

import "time"

// AdjustStockRequest body para POST /api/stock/adjustments (entrada de producción o corrección).
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Location  string `json:"location"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
}

// StockLevelResponse saldo de un producto en una ubicación.
type StockLevelResponse struct {
	ProductID string    `json:"product_id"`
	Location  string    `json:"location"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ProductStockResponse saldos de un producto en todas las ubicaciones más lo que está en tránsito.
type ProductStockResponse struct {
	ProductID string           `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Levels    map[string]int64 `json:"levels"`
	InTransit int64            `json:"in_transit"` // suma de traslados pendientes
	Total     int64            `json:"total"`      // niveles + en tránsito
}

// StockListResponse lista paginada de saldos de una ubicación.
type StockListResponse struct {
	Location string               `json:"location"`
	Items    []StockLevelResponse `json:"items"`
	Page     PageResponse         `json:"page"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	MovementID string `json:"movement_id"`
	ProductID  string `json:"product_id"`
	Location   string `json:"location"`
	Quantity   int64  `json:"quantity"` // saldo resultante
}

// StockMovementResponse movimiento del libro.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	Location      string    `json:"location"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	BalanceAfter  int64     `json:"balance_after"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

// StockMovementListResponse lista paginada de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
