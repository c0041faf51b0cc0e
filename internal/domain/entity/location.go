package entity

import "time"

// Location representa un punto físico donde se guarda inventario (bodega, tienda, cocina).
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
