package entity

import "time"

// MovementType tipo de movimiento del libro de existencias.
type MovementType string

// Tipos de movimiento.
const (
	MovementPurchase    MovementType = "PURCHASE"
	MovementSale        MovementType = "SALE"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementAdjustment  MovementType = "INVENTORY_ADJUSTMENT"
)

// MovementTypes lista de todos los tipos válidos.
var MovementTypes = []MovementType{
	MovementPurchase, MovementSale, MovementTransferIn, MovementTransferOut, MovementAdjustment,
}

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	for _, mt := range MovementTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// StockMovement registro inmutable de un cambio de cantidad y su origen.
// La suma de QuantityChange por (producto, ubicación) debe coincidir con Stock.Quantity.
type StockMovement struct {
	ID             string
	ProductID      string
	LocationID     string
	QuantityChange int64 // positivo aumenta, negativo disminuye
	Type           MovementType
	ReferenceID    string // compra, venta, traslado o línea de inventario que lo originó
	UserID         string
	MovementDate   time.Time
}
