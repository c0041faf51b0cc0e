package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRecipeRequest entrada para crear la receta de un producto.
type CreateRecipeRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

// UpdateRecipeRequest entrada para actualizar nombre y descripción.
type UpdateRecipeRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string `json:"description"`
}

// AddIngredientRequest entrada para agregar un insumo a la receta.
type AddIngredientRequest struct {
	IngredientProductID string           `json:"ingredient_product_id" validate:"required,uuid"`
	Quantity            decimal.Decimal  `json:"quantity"`
	Unit                string           `json:"unit" validate:"required,max=20"`
	CostPerUnit         *decimal.Decimal `json:"cost_per_unit"`
}

// IngredientResponse salida de un insumo.
type IngredientResponse struct {
	ID                  string           `json:"id"`
	IngredientProductID string           `json:"ingredient_product_id"`
	Quantity            decimal.Decimal  `json:"quantity"`
	Unit                string           `json:"unit"`
	CostPerUnit         *decimal.Decimal `json:"cost_per_unit,omitempty"`
	TotalCost           *decimal.Decimal `json:"total_cost,omitempty"`
}

// RecipeResponse salida de una receta con sus insumos y costo total.
type RecipeResponse struct {
	ID          string               `json:"id"`
	ProductID   string               `json:"product_id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Ingredients []IngredientResponse `json:"ingredients"`
	TotalCost   decimal.Decimal      `json:"total_cost"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// RecipeListResponse lista paginada de recetas (sin insumos).
type RecipeListResponse struct {
	Items []RecipeResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
