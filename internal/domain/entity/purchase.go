package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase entrada de mercancía desde un proveedor a una ubicación.
type Purchase struct {
	ID           string
	ProductID    string
	SupplierID   string // opcional
	LocationID   string
	UserID       string // opcional
	Quantity     int64
	CostPrice    decimal.Decimal // costo unitario
	BatchNumber  string
	ExpiryDate   *time.Time
	PurchaseDate time.Time
}

// PurchaseSummary totales de compras en un rango de fechas.
type PurchaseSummary struct {
	PurchaseCount     int64
	QuantityPurchased int64
	TotalCost         decimal.Decimal
}

// TotalCost costo total de la compra (cantidad x costo unitario).
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(p.Quantity))
}
