package dto

import "time"

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID    string `json:"product_id"`
	Quantity     int64  `json:"quantity"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	Notes        string `json:"notes,omitempty"`
}

// ConfirmTransferRequest body opcional para POST /api/transfers/{id}/confirm.
type ConfirmTransferRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CancelTransferRequest body para POST /api/transfers/{id}/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id"`
	Quantity     int64      `json:"quantity"`
	FromLocation string     `json:"from_location"`
	ToLocation   string     `json:"to_location"`
	Status       string     `json:"status"`
	InitiatedBy  string     `json:"initiated_by"`
	TransferDate time.Time  `json:"transfer_date"`
	ConfirmedBy  *string    `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CancelledBy  *string    `json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
