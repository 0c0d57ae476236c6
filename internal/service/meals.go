package service

import (
	"context"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
)

const (
	msgInvalidDate  = "Invalid date format. Use YYYY-MM-DD"
	msgMealNotFound = "Meal not found"
)

// ListMeals returns every meal
func (s *Service) ListMeals(ctx context.Context) ([]models.Meal, error) {
	meals, err := s.repo.ListMeals(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return meals, nil
}

// CreateMeal validates and stores a new meal. References are not checked here.
func (s *Service) CreateMeal(ctx context.Context, req models.MealRequest) (*models.Meal, error) {
	if req.Date == nil || req.UserID == nil || req.RecipeID == nil {
		return nil, apperrors.Validation(msgMissingFields)
	}
	date, err := models.ParseDate(*req.Date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	meal := &models.Meal{
		Name:     stringOr(req.Name, ""),
		Date:     date,
		UserID:   *req.UserID,
		RecipeID: *req.RecipeID,
		Notes:    stringOr(req.Notes, ""),
	}
	if err := s.repo.CreateMeal(ctx, meal); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Infof("Meal %d scheduled on %s for user %d", meal.ID, meal.Date, meal.UserID)
	return meal, nil
}

// GetMeal looks up a meal or reports not found
func (s *Service) GetMeal(ctx context.Context, id int) (*models.Meal, error) {
	meal, err := s.repo.GetMeal(ctx, id)
	if err != nil {
		return nil, internal(err, msgMealNotFound)
	}
	return meal, nil
}

// UpdateMeal overwrites date, user and recipe, which are required. Name and notes keep
// their stored values when absent.
func (s *Service) UpdateMeal(ctx context.Context, id int, req models.MealRequest) (*models.Meal, error) {
	meal, err := s.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Date == nil || req.UserID == nil || req.RecipeID == nil {
		return nil, apperrors.Validation(msgMissingFields)
	}
	date, err := models.ParseDate(*req.Date)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidDate)
	}

	meal.Name = stringOr(req.Name, meal.Name)
	meal.Date = date
	meal.UserID = *req.UserID
	meal.RecipeID = *req.RecipeID
	meal.Notes = stringOr(req.Notes, meal.Notes)

	if err := s.repo.UpdateMeal(ctx, meal); err != nil {
		return nil, internal(err, msgMealNotFound)
	}

	s.log.Infof("Meal %d updated", meal.ID)
	return meal, nil
}

// DeleteMeal removes a meal by id
func (s *Service) DeleteMeal(ctx context.Context, id int) error {
	if _, err := s.GetMeal(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteMeal(ctx, id); err != nil {
		return internal(err, msgMealNotFound)
	}

	s.log.Infof("Meal %d deleted", id)
	return nil
}
