package entity

import "time"

// Stock es la fila del libro de existencias: cantidad actual de un producto en una ubicación.
// Existe a lo sumo una fila por (producto, ubicación); se crea la primera vez que hay actividad.
type Stock struct {
	ID          string
	ProductID   string
	LocationID  string
	Quantity    int64
	LastUpdated time.Time
}

// IsRecorded indica si la fila existe en el libro; una fila sin registrar equivale a cantidad cero.
func (s *Stock) IsRecorded() bool {
	return s != nil && s.ID != ""
}

// StockDetail fila de existencias con datos descriptivos para reportes y exportación.
type StockDetail struct {
	Stock
	ProductName  string
	Barcode      string
	Unit         string
	LocationName string
}
