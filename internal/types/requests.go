package types

import "github.com/google/uuid"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest is the body of POST /api/users/set_password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// IngredientAmount is one (ingredient, amount) pair of a recipe
// submission. Amount is a pointer so a missing amount can be told apart
// from zero and rejected with a specific message.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount *int      `json:"amount"`
}

// RecipeInput is the body of POST /api/recipes and PATCH
// /api/recipes/:id. Image carries either a base64 data URI to be stored
// or an already-stored URL. List-level and element-level rules are
// checked by the recipe service, not by binding, so that every failure
// carries a descriptive message.
type RecipeInput struct {
	Name        string             `json:"name" binding:"required,max=100"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}
