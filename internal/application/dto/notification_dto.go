package dto

import "time"

// NotificationResponse aviso para el operador autenticado.
type NotificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	RelatedID string     `json:"related_id"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NotificationListResponse lista paginada de avisos.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int64                  `json:"unread"`
	Page   PageResponse           `json:"page"`
}

// PruneNotificationsRequest body para POST /api/notifications/prune.
type PruneNotificationsRequest struct {
	OlderThanDays int `json:"older_than_days"`
}

// PruneNotificationsResponse cantidad de avisos eliminados.
type PruneNotificationsResponse struct {
	Deleted int64 `json:"deleted"`
}
