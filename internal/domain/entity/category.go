package entity

import "time"

// Category agrupa productos. Nombre único.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
