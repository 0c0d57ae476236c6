package models

// Request bodies use pointer fields so that an absent key can be told apart from an empty value.

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginRequest is the body of POST /login. The identifier is taken from the first
// non-empty of UsernameOrEmail, Email and Username.
type LoginRequest struct {
	UsernameOrEmail *string `json:"username_or_email"`
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
}

// LoginResponse carries the identity of an authenticated user
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RecipeRequest is the body of POST and PUT /recipes
type RecipeRequest struct {
	Title        *string `json:"title"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	UserID       *int    `json:"user_id"`
}

// MealRequest is the body of POST and PUT /meals. Date is kept as text so that a
// malformed value can be reported separately from a missing one.
type MealRequest struct {
	Name     *string `json:"name"`
	Date     *string `json:"date"`
	UserID   *int    `json:"user_id"`
	RecipeID *int    `json:"recipe_id"`
	Notes    *string `json:"notes"`
}
