package service

import (
	"context"
	"errors"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
	"github.com/Dan9191/mealmate/internal/repository"
)

const (
	msgMissingFields    = "Missing required fields"
	msgRecipeNotFound   = "Recipe not found"
	msgRecipeReferenced = "Recipe is still referenced by meals"
)

// ListRecipes returns every recipe
func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return recipes, nil
}

// CreateRecipe validates and stores a new recipe. The owner's existence is left to the store.
func (s *Service) CreateRecipe(ctx context.Context, req models.RecipeRequest) (*models.Recipe, error) {
	if req.Title == nil || req.Ingredients == nil || req.UserID == nil {
		return nil, apperrors.Validation(msgMissingFields)
	}

	recipe := &models.Recipe{
		Title:        *req.Title,
		Ingredients:  *req.Ingredients,
		Instructions: stringOr(req.Instructions, ""),
		UserID:       *req.UserID,
	}
	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Infof("Recipe %d created for user %d", recipe.ID, recipe.UserID)
	return recipe, nil
}

// GetRecipe looks up a recipe or reports not found
func (s *Service) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, internal(err, msgRecipeNotFound)
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update: only fields present in req are changed
func (s *Service) UpdateRecipe(ctx context.Context, id int, req models.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe.Title = stringOr(req.Title, recipe.Title)
	recipe.Ingredients = stringOr(req.Ingredients, recipe.Ingredients)
	recipe.Instructions = stringOr(req.Instructions, recipe.Instructions)

	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		return nil, internal(err, msgRecipeNotFound)
	}

	s.log.Infof("Recipe %d updated", recipe.ID)
	return recipe, nil
}

// DeleteRecipe removes a recipe that no meal references. A recipe still used by a
// meal yields a 409 StillReferenced error instead of orphaning the meals.
func (s *Service) DeleteRecipe(ctx context.Context, id int) error {
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperrors.StillReferenced(msgRecipeReferenced, err)
		}
		return internal(err, msgRecipeNotFound)
	}

	s.log.Infof("Recipe %d deleted", id)
	return nil
}
