package service

import (
	"context"
	"errors"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
	"github.com/Dan9191/mealmate/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the service depends on. It is satisfied by
// repository.Repository and repository.Memory.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByLogin(ctx context.Context, identifier string) (*models.User, error)

	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipe(ctx context.Context, id int) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id int) error

	ListMeals(ctx context.Context) ([]models.Meal, error)
	ListMealsOn(ctx context.Context, day models.Date) ([]models.Meal, error)
	CreateMeal(ctx context.Context, meal *models.Meal) error
	GetMeal(ctx context.Context, id int) (*models.Meal, error)
	UpdateMeal(ctx context.Context, meal *models.Meal) error
	DeleteMeal(ctx context.Context, id int) error
}

// Mailer sends account mails. A nil Mailer disables them.
type Mailer interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	repo     Store
	log      *logrus.Logger
	mailer   Mailer
	hashCost int
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, mailer Mailer) *Service {
	return &Service{repo: repo, log: log, mailer: mailer, hashCost: bcrypt.DefaultCost}
}

// internal converts an unexpected store error, keeping not-found as a plain 404
func internal(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(notFound)
	}
	return apperrors.Internal(err)
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
