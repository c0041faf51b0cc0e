package entity

import "time"

// ActivityLog registro de auditoría de una acción de usuario sobre la API.
type ActivityLog struct {
	ID        string
	UserID    string // vacío si la petición no estaba autenticada
	Action    string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
