package entity

import "time"

// Límites de longitud de los campos de producto.
const (
	ProductNameMaxLen    = 100
	ProductBarcodeMaxLen = 50
	ProductUnitMaxLen    = 20
)

// Product representa un artículo del catálogo. Las existencias se llevan por ubicación en Stock.
type Product struct {
	ID          string
	Name        string // único
	Barcode     string // único, opcional (vacío = sin código)
	Unit        string // unidad de medida: kg, und, lt...
	Description string
	CategoryID  string // vacío si no tiene categoría
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasTag indica si el producto ya tiene asociada la etiqueta.
func (p *Product) HasTag(tagID string) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
