package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cookbook/internal/model"
	"cookbook/internal/service"
)

// ListRecipes returns every recipe, most viewed first.
//
// @Summary      List recipes
// @Description  Returns all recipes ordered by views (descending), then cooking time (ascending).
// @Tags         recipes
// @Produce      json
// @Success      200  {array}   model.Recipe
// @Router       /recipes/ [get]
func ListRecipes(svc service.RecipeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// GetRecipe returns one recipe and counts the fetch as a view.
//
// @Summary      Get recipe by ID
// @Description  Returns the recipe with its view counter already incremented.
// @Tags         recipes
// @Produce      json
// @Param        id   path      int  true  "Recipe ID"
// @Success      200  {object}  model.Recipe
// @Failure      404  {object}  handler.errorPayload
// @Failure      422  {object}  handler.errorPayload
// @Router       /recipes/{id} [get]
func GetRecipe(svc service.RecipeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeValidation(c, model.InvalidPathInt("id"))
		}

		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "Recipe not found")
			}
			return err
		}
		return c.JSON(rec)
	}
}

// CreateRecipe validates the body and stores a new recipe.
//
// @Summary      Create recipe
// @Description  Creates a recipe. views is optional and defaults to 0.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        recipe  body      model.RecipeCreate  true  "New recipe"
// @Success      200     {object}  model.Recipe
// @Failure      422     {object}  handler.errorPayload
// @Router       /recipes/ [post]
func CreateRecipe(svc service.RecipeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := model.DecodeRecipeCreate(c.Body())
		if err != nil {
			if ve, ok := model.AsValidationErrors(err); ok {
				return writeValidation(c, ve)
			}
			return err
		}

		rec, err := svc.Create(c.UserContext(), in)
		if err != nil {
			if ve, ok := model.AsValidationErrors(err); ok {
				return writeValidation(c, ve)
			}
			return err
		}
		return c.JSON(rec)
	}
}

// ExportRecipes writes a catalog snapshot to object storage.
//
// @Summary      Export catalog
// @Description  Uploads all recipes as JSON to object storage and returns a presigned download link.
// @Tags         exports
// @Produce      json
// @Success      201  {object}  service.ExportResult
// @Failure      503  {object}  handler.errorPayload
// @Router       /exports/recipes [post]
func ExportRecipes(svc service.RecipeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Export(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrExportDisabled) {
				return writeError(c, fiber.StatusServiceUnavailable, "Catalog export is not configured")
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
