package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale salida de mercancía vendida desde una ubicación.
type Sale struct {
	ID         string
	ProductID  string
	LocationID string
	UserID     string // opcional
	Quantity   int64
	SalePrice  decimal.Decimal // precio unitario
	SaleDate   time.Time
}

// Revenue ingreso de la venta (cantidad x precio unitario).
func (s *Sale) Revenue() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(s.Quantity))
}

// ProductSales agregado de ventas por producto en un rango de fechas.
type ProductSales struct {
	ProductID    string
	ProductName  string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// SalesSummary totales de ventas en un rango de fechas.
type SalesSummary struct {
	SalesCount   int64
	QuantitySold int64
	Revenue      decimal.Decimal
}
