package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Dan9191/mealmate/internal/models"
)

var errDanglingReference = errors.New("violates foreign key constraint")

// Memory is an in-process store with the same constraints as the Postgres schema:
// unique usernames and emails, and foreign keys checked on every write.
// It backs tests and DB_CONN=memory local runs.
type Memory struct {
	mu      sync.RWMutex
	users   map[int]models.User
	recipes map[int]models.Recipe
	meals   map[int]models.Meal
	nextID  map[string]int
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[int]models.User),
		recipes: make(map[int]models.Recipe),
		meals:   make(map[int]models.Meal),
		nextID:  make(map[string]int),
	}
}

func (m *Memory) id(table string) int {
	m.nextID[table]++
	return m.nextID[table]
}

// CreateUser inserts a user, enforcing unique username and email
func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("failed to create user: %w", ErrDuplicateUsername)
		}
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", ErrDuplicateEmail)
		}
	}
	user.ID = m.id("users")
	stored := *user
	stored.Recipes, stored.Meals = nil, nil
	m.users[user.ID] = stored
	return nil
}

// GetUser retrieves a user by id
func (m *Memory) GetUser(_ context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// FindUserByUsername retrieves a user by exact username
func (m *Memory) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

// FindUserByEmail retrieves a user by exact email
func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

// FindUserByLogin retrieves the lowest-id user whose username or email equals identifier
func (m *Memory) FindUserByLogin(_ context.Context, identifier string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (m *Memory) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range sortedKeys(m.users) {
		if u := m.users[id]; match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// ListRecipes returns every recipe ordered by id
func (m *Memory) ListRecipes(_ context.Context) ([]models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recipes := make([]models.Recipe, 0, len(m.recipes))
	for _, id := range sortedKeys(m.recipes) {
		recipes = append(recipes, m.recipes[id])
	}
	return recipes, nil
}

// CreateRecipe inserts a recipe owned by an existing user
func (m *Memory) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[recipe.UserID]; !ok {
		return fmt.Errorf("failed to create recipe: user_id %d %w", recipe.UserID, errDanglingReference)
	}
	recipe.ID = m.id("recipes")
	m.recipes[recipe.ID] = *recipe
	return nil
}

// GetRecipe retrieves a recipe by id
func (m *Memory) GetRecipe(_ context.Context, id int) (*models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// UpdateRecipe overwrites title, ingredients and instructions
func (m *Memory) UpdateRecipe(_ context.Context, recipe *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.recipes[recipe.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = recipe.Title
	stored.Ingredients = recipe.Ingredients
	stored.Instructions = recipe.Instructions
	m.recipes[recipe.ID] = stored
	return nil
}

// DeleteRecipe removes a recipe that no meal references
func (m *Memory) DeleteRecipe(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return ErrNotFound
	}
	for _, meal := range m.meals {
		if meal.RecipeID == id {
			return fmt.Errorf("failed to delete recipe: %w", ErrReferenced)
		}
	}
	delete(m.recipes, id)
	return nil
}

// ListMeals returns every meal ordered by id
func (m *Memory) ListMeals(_ context.Context) ([]models.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := make([]models.Meal, 0, len(m.meals))
	for _, id := range sortedKeys(m.meals) {
		meals = append(meals, m.meals[id])
	}
	return meals, nil
}

// ListMealsOn returns the meals scheduled on day, ordered by user then id
func (m *Memory) ListMealsOn(_ context.Context, day models.Date) ([]models.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := []models.Meal{}
	for _, id := range sortedKeys(m.meals) {
		if meal := m.meals[id]; meal.Date.Equal(day.Time) {
			meals = append(meals, meal)
		}
	}
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].UserID < meals[j].UserID })
	return meals, nil
}

// CreateMeal inserts a meal referencing an existing user and recipe
func (m *Memory) CreateMeal(_ context.Context, meal *models.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkMealRefs(meal); err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	meal.ID = m.id("meals")
	m.meals[meal.ID] = *meal
	return nil
}

// GetMeal retrieves a meal by id
func (m *Memory) GetMeal(_ context.Context, id int) (*models.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meal, ok := m.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &meal, nil
}

// UpdateMeal overwrites every column of a meal
func (m *Memory) UpdateMeal(_ context.Context, meal *models.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.meals[meal.ID]; !ok {
		return ErrNotFound
	}
	if err := m.checkMealRefs(meal); err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	m.meals[meal.ID] = *meal
	return nil
}

// DeleteMeal removes a meal by id
func (m *Memory) DeleteMeal(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.meals[id]; !ok {
		return ErrNotFound
	}
	delete(m.meals, id)
	return nil
}

func (m *Memory) checkMealRefs(meal *models.Meal) error {
	if _, ok := m.users[meal.UserID]; !ok {
		return fmt.Errorf("user_id %d %w", meal.UserID, errDanglingReference)
	}
	if _, ok := m.recipes[meal.RecipeID]; !ok {
		return fmt.Errorf("recipe_id %d %w", meal.RecipeID, errDanglingReference)
	}
	return nil
}

func sortedKeys[V any](rows map[int]V) []int {
	keys := make([]int, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
