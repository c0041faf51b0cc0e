package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia para Recipe y sus ingredientes.
// GetByID y GetByProductID no cargan ingredientes; usar ListIngredients.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	GetByProductID(ctx context.Context, productID string) (*entity.Recipe, error)
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Recipe, error)
	AddIngredient(ctx context.Context, ingredient *entity.RecipeIngredient) error
	RemoveIngredient(ctx context.Context, recipeID, ingredientID string) error
	ListIngredients(ctx context.Context, recipeID string) ([]entity.RecipeIngredient, error)
}
