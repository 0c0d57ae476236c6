package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/mealmate/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row exists for a lookup
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when the username unique constraint fires
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail is returned when the email unique constraint fires
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrReferenced is returned when a delete is blocked by a foreign key
	ErrReferenced = errors.New("record is still referenced")
)

// Postgres SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Repository provides database operations
type Repository struct {
	db *gorm.DB
}

// NewRepository initializes a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if strings.Contains(pqErr.Constraint, "email") {
				return fmt.Errorf("failed to create user: %w: %w", ErrDuplicateEmail, err)
			}
			return fmt.Errorf("failed to create user: %w: %w", ErrDuplicateUsername, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id
func (r *Repository) GetUser(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	if err := r.db.WithContext(ctx).First(user, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to find user")
	}
	return user, nil
}

// FindUserByUsername retrieves a user by exact username
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

// FindUserByEmail retrieves a user by exact email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

// FindUserByLogin retrieves the first user whose username or email equals identifier
func (r *Repository) FindUserByLogin(ctx context.Context, identifier string) (*models.User, error) {
	return r.findUser(ctx, "username = ? OR email = ?", identifier, identifier)
}

func (r *Repository) findUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	if err := r.db.WithContext(ctx).Where(query, args...).First(user).Error; err != nil {
		return nil, notFoundOr(err, "failed to find user")
	}
	return user, nil
}

// ListRecipes returns every recipe
func (r *Repository) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := r.db.WithContext(ctx).Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// CreateRecipe inserts a recipe and fills in its id
func (r *Repository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetRecipe retrieves a recipe by id
func (r *Repository) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	if err := r.db.WithContext(ctx).First(recipe, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to find recipe")
	}
	return recipe, nil
}

// UpdateRecipe overwrites the editable columns of a recipe. The owner is never changed.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	res := r.db.WithContext(ctx).Model(recipe).
		Select("title", "ingredients", "instructions").
		Updates(recipe)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe by id
func (r *Repository) DeleteRecipe(ctx context.Context, id int) error {
	return r.delete(ctx, &models.Recipe{}, id, "recipe")
}

// ListMeals returns every meal
func (r *Repository) ListMeals(ctx context.Context) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := r.db.WithContext(ctx).Order("id").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// ListMealsOn returns the meals scheduled on day, ordered by user
func (r *Repository) ListMealsOn(ctx context.Context, day models.Date) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := r.db.WithContext(ctx).Where("date = ?", day).Order("user_id, id").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals for %s: %w", day, err)
	}
	return meals, nil
}

// CreateMeal inserts a meal and fills in its id
func (r *Repository) CreateMeal(ctx context.Context, meal *models.Meal) error {
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

// GetMeal retrieves a meal by id
func (r *Repository) GetMeal(ctx context.Context, id int) (*models.Meal, error) {
	meal := &models.Meal{}
	if err := r.db.WithContext(ctx).First(meal, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to find meal")
	}
	return meal, nil
}

// UpdateMeal overwrites every column of a meal
func (r *Repository) UpdateMeal(ctx context.Context, meal *models.Meal) error {
	res := r.db.WithContext(ctx).Model(meal).
		Select("name", "date", "user_id", "recipe_id", "notes").
		Updates(meal)
	if res.Error != nil {
		return fmt.Errorf("failed to update meal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeal removes a meal by id
func (r *Repository) DeleteMeal(ctx context.Context, id int) error {
	return r.delete(ctx, &models.Meal{}, id, "meal")
}

func (r *Repository) delete(ctx context.Context, model interface{}, id int, name string) error {
	res := r.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		var pqErr *pq.Error
		if errors.As(res.Error, &pqErr) && pqErr.Code == foreignKeyViolation {
			return fmt.Errorf("failed to delete %s: %w: %w", name, ErrReferenced, res.Error)
		}
		return fmt.Errorf("failed to delete %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
