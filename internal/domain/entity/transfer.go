package entity

import "time"

// Transfer traslado de mercancía entre dos ubicaciones distintas.
type Transfer struct {
	ID             string
	ProductID      string
	FromLocationID string
	ToLocationID   string
	UserID         string // opcional
	Quantity       int64
	TransferDate   time.Time
}
