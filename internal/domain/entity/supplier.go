package entity

import "time"

// Supplier proveedor de mercancía para compras.
type Supplier struct {
	ID          string
	Name        string
	ContactInfo string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
