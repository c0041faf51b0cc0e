package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeNameMaxLen longitud máxima del nombre de receta.
const RecipeNameMaxLen = 150

// Recipe lista de materiales de un producto terminado (una receta por producto).
type Recipe struct {
	ID          string
	ProductID   string
	Name        string
	Description string
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalCost suma el costo de los ingredientes que tienen costo unitario.
func (r *Recipe) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Ingredients {
		if c := r.Ingredients[i].TotalCost(); c != nil {
			total = total.Add(*c)
		}
	}
	return total
}

// RecipeIngredient insumo de una receta: cantidad (3 decimales) de otro producto.
type RecipeIngredient struct {
	ID                  string
	RecipeID            string
	IngredientProductID string
	Quantity            decimal.Decimal
	Unit                string
	CostPerUnit         *decimal.Decimal
}

// TotalCost cantidad x costo unitario; nil si el insumo no tiene costo.
func (i *RecipeIngredient) TotalCost() *decimal.Decimal {
	if i.CostPerUnit == nil {
		return nil
	}
	t := i.Quantity.Mul(*i.CostPerUnit)
	return &t
}
