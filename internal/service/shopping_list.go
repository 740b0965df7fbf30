package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// AggregatedIngredient is one row of a consolidated shopping list: an
// ingredient with its amounts summed across every recipe in the cart.
type AggregatedIngredient struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService handles the shopping-cart membership and the
// consolidated-list aggregation. Like favorites, duplicate membership
// is guarded by the (user, recipe) unique index.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Add puts a recipe in the user's shopping cart and returns the recipe.
// Referencing a recipe that does not exist is a malformed request, not
// a lookup miss.
func (s *ShoppingListService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("recipe %s does not exist", recipeID)
		}
		return nil, err
	}

	item := models.ShoppingListItem{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInShoppingCart
		}
		return nil, err
	}
	return &recipe, nil
}

// Remove takes a recipe out of the user's shopping cart.
func (s *ShoppingListService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingListItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInShoppingCart
	}
	return nil
}

// InCartSet reports which of the given recipes are in the user's cart.
// A nil user yields an empty set.
func (s *ShoppingListService) InCartSet(ctx context.Context, userID *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == nil || len(recipeIDs) == 0 {
		return set, nil
	}
	var inCart []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.ShoppingListItem{}).
		Where("user_id = ? AND recipe_id IN ?", *userID, recipeIDs).
		Pluck("recipe_id", &inCart).Error
	if err != nil {
		return nil, err
	}
	for _, id := range inCart {
		set[id] = true
	}
	return set, nil
}

// Aggregate computes the consolidated ingredient list across every
// recipe in the user's cart: one row per distinct ingredient with its
// amounts summed, ordered by ingredient name. The aggregation itself
// has no side effects; rendering is separate (see RenderShoppingList).
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]AggregatedIngredient, error) {
	cart := s.db.Table("shopping_list_items").
		Select("shopping_list_items.recipe_id").
		Where("shopping_list_items.user_id = ?", userID)

	var items []AggregatedIngredient
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cart).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats aggregated ingredients as the plain-text
// attachment body.
func RenderShoppingList(items []AggregatedIngredient) string {
	var b strings.Builder
	b.WriteString("Shopping list:")
	for _, item := range items {
		fmt.Fprintf(&b, "\n- %s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}
