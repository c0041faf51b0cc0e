package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas e ingredientes sobre PostgreSQL.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador de recetas.
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

const recipeColumns = `id, product_id, name, description, created_at, updated_at`

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	var rc entity.Recipe
	if err := row.Scan(&rc.ID, &rc.ProductID, &rc.Name, &rc.Description, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Create inserta la receta. Un producto con receta -> ErrDuplicate.
func (r *RecipeRepo) Create(ctx context.Context, rc *entity.Recipe) error {
	_, err := r.q.Exec(ctx, `INSERT INTO recipes (`+recipeColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		rc.ID, rc.ProductID, rc.Name, rc.Description, rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("el producto %s ya tiene receta: %w", rc.ProductID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return r.getOne(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
}

func (r *RecipeRepo) GetByProductID(ctx context.Context, productID string) (*entity.Recipe, error) {
	return r.getOne(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE product_id = $1`, productID)
}

func (r *RecipeRepo) getOne(ctx context.Context, query, arg string) (*entity.Recipe, error) {
	rc, err := scanRecipe(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rc, nil
}

func (r *RecipeRepo) Update(ctx context.Context, rc *entity.Recipe) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE recipes SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		rc.ID, rc.Name, rc.Description, rc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receta %s: %w", rc.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la receta con sus ingredientes.
func (r *RecipeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receta %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *RecipeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Recipe, error) {
	rows, err := r.q.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recipe
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

func (r *RecipeRepo) AddIngredient(ctx context.Context, in *entity.RecipeIngredient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recipe_ingredients (id, recipe_id, ingredient_product_id, quantity, unit, cost_per_unit)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.RecipeID, in.IngredientProductID, in.Quantity, in.Unit, in.CostPerUnit,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("receta %s o insumo %s: %w", in.RecipeID, in.IngredientProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

func (r *RecipeRepo) RemoveIngredient(ctx context.Context, recipeID, ingredientID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM recipe_ingredients WHERE id = $1 AND recipe_id = $2`, ingredientID, recipeID)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingrediente %s: %w", ingredientID, domain.ErrNotFound)
	}
	return nil
}

func (r *RecipeRepo) ListIngredients(ctx context.Context, recipeID string) ([]entity.RecipeIngredient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.recipe_id, i.ingredient_product_id, i.quantity, i.unit, i.cost_per_unit
		FROM recipe_ingredients i JOIN products p ON p.id = i.ingredient_product_id
		WHERE i.recipe_id = $1 ORDER BY p.name`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []entity.RecipeIngredient
	for rows.Next() {
		var in entity.RecipeIngredient
		if err := rows.Scan(&in.ID, &in.RecipeID, &in.IngredientProductID, &in.Quantity, &in.Unit, &in.CostPerUnit); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}
