package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
)

// RecipeHandler recetas (lista de materiales) de productos elaborados.
type RecipeHandler struct {
	uc *usecase.RecipeUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *usecase.RecipeUseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecipeRequest  true  "Receta con ingredientes"
// @Success      201   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecipeRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener receta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [get]
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByProduct godoc
// @Summary      Receta de un producto
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/product/{productId} [get]
func (h *RecipeHandler) GetByProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recetas
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecipeListResponse
// @Router       /api/recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), page(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la receta"
// @Param        body  body  dto.UpdateRecipeRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.RecipeResponse
// @Router       /api/recipes/{id} [put]
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRecipeRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar receta
// @Tags         recipes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la receta"
// @Success      204
// @Router       /api/recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddIngredient godoc
// @Summary      Agregar ingrediente
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la receta"
// @Param        body  body  dto.AddIngredientRequest  true  "Ingrediente"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ingredients [post]
func (h *RecipeHandler) AddIngredient(c *fiber.Ctx) error {
	var in dto.AddIngredientRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddIngredient(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RemoveIngredient godoc
// @Summary      Quitar ingrediente
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id            path  string  true  "ID de la receta"
// @Param        ingredientId  path  string  true  "ID del ingrediente"
// @Success      200  {object}  dto.RecipeResponse
// @Router       /api/recipes/{id}/ingredients/{ingredientId} [delete]
func (h *RecipeHandler) RemoveIngredient(c *fiber.Ctx) error {
	out, err := h.uc.RemoveIngredient(c.UserContext(), c.Params("id"), c.Params("ingredientId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
