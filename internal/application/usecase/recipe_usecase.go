package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// RecipeUseCase recetas (lista de materiales) de productos terminados.
type RecipeUseCase struct {
	repo     repository.RecipeRepository
	products repository.ProductRepository
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(repo repository.RecipeRepository, products repository.ProductRepository) *RecipeUseCase {
	return &RecipeUseCase{repo: repo, products: products}
}

// Create crea la receta de un producto. Un producto tiene a lo sumo una receta.
func (uc *RecipeUseCase) Create(ctx context.Context, in dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" || len(name) > entity.RecipeNameMaxLen {
		return nil, fmt.Errorf("name inválido: %w", domain.ErrInvalidInput)
	}
	if err := uc.requireProduct(ctx, "product_id", in.ProductID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByProductID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("el producto ya tiene receta: %w", domain.ErrDuplicate)
	}
	now := time.Now()
	recipe := &entity.Recipe{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// GetByID obtiene la receta con sus insumos y costo total.
func (uc *RecipeUseCase) GetByID(ctx context.Context, id string) (*dto.RecipeResponse, error) {
	recipe, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// GetByProduct obtiene la receta de un producto.
func (uc *RecipeUseCase) GetByProduct(ctx context.Context, productID string) (*dto.RecipeResponse, error) {
	if err := checkID("product_id", productID); err != nil {
		return nil, err
	}
	recipe, err := uc.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("receta del producto %s: %w", productID, domain.ErrNotFound)
	}
	return uc.GetByID(ctx, recipe.ID)
}

// Update cambia nombre y descripción.
func (uc *RecipeUseCase) Update(ctx context.Context, id string, in dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	recipe, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := domain.NormalizeName(*in.Name)
		if name == "" || len(name) > entity.RecipeNameMaxLen {
			return nil, fmt.Errorf("name inválido: %w", domain.ErrInvalidInput)
		}
		recipe.Name = name
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	recipe.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// List lista recetas sin insumos.
func (uc *RecipeUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.RecipeListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRecipeResponse(r))
	}
	return &dto.RecipeListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina la receta y sus insumos.
func (uc *RecipeUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// AddIngredient agrega un insumo. El insumo no puede ser el mismo producto de la receta.
func (uc *RecipeUseCase) AddIngredient(ctx context.Context, recipeID string, in dto.AddIngredientRequest) (*dto.RecipeResponse, error) {
	recipe, err := uc.get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("quantity debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if in.CostPerUnit != nil && in.CostPerUnit.IsNegative() {
		return nil, fmt.Errorf("cost_per_unit negativo: %w", domain.ErrInvalidInput)
	}
	if in.IngredientProductID == recipe.ProductID {
		return nil, fmt.Errorf("una receta no puede usarse a sí misma: %w", domain.ErrInvalidInput)
	}
	if err := uc.requireProduct(ctx, "ingredient_product_id", in.IngredientProductID); err != nil {
		return nil, err
	}
	ingredient := &entity.RecipeIngredient{
		ID:                  uuid.New().String(),
		RecipeID:            recipeID,
		IngredientProductID: in.IngredientProductID,
		Quantity:            in.Quantity.Round(3),
		Unit:                in.Unit,
		CostPerUnit:         in.CostPerUnit,
	}
	if err := uc.repo.AddIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, recipeID)
}

// RemoveIngredient quita un insumo de la receta.
func (uc *RecipeUseCase) RemoveIngredient(ctx context.Context, recipeID, ingredientID string) (*dto.RecipeResponse, error) {
	if _, err := uc.get(ctx, recipeID); err != nil {
		return nil, err
	}
	if err := checkID("ingredient_id", ingredientID); err != nil {
		return nil, err
	}
	if err := uc.repo.RemoveIngredient(ctx, recipeID, ingredientID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, recipeID)
}

func (uc *RecipeUseCase) get(ctx context.Context, id string) (*entity.Recipe, error) {
	if err := checkID("recipe_id", id); err != nil {
		return nil, err
	}
	recipe, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("receta %s: %w", id, domain.ErrNotFound)
	}
	return recipe, nil
}

func (uc *RecipeUseCase) load(ctx context.Context, id string) (*entity.Recipe, error) {
	recipe, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients, err = uc.repo.ListIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (uc *RecipeUseCase) requireProduct(ctx context.Context, kind, id string) error {
	if err := checkID(kind, id); err != nil {
		return err
	}
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toRecipeResponse(r *entity.Recipe) *dto.RecipeResponse {
	ingredients := make([]dto.IngredientResponse, 0, len(r.Ingredients))
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ingredients = append(ingredients, dto.IngredientResponse{
			ID:                  ing.ID,
			IngredientProductID: ing.IngredientProductID,
			Quantity:            ing.Quantity,
			Unit:                ing.Unit,
			CostPerUnit:         ing.CostPerUnit,
			TotalCost:           ing.TotalCost(),
		})
	}
	return &dto.RecipeResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: ingredients,
		TotalCost:   r.TotalCost(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
