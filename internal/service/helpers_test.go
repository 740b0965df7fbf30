package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{
		Name:  name,
		Color: fmt.Sprintf("#%02X%02X%02X", name[0], name[len(name)-1], len(name)),
		Slug:  name,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to seed tag %s: %v", name, err)
	}
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to seed ingredient %s: %v", name, err)
	}
	return ingredient
}

func intPtr(v int) *int { return &v }

func recipeInput(name string, tagIDs []uuid.UUID, ingredients []types.IngredientAmount) types.RecipeInput {
	return types.RecipeInput{
		Name:        name,
		Text:        "Mix everything and cook.",
		CookingTime: 30,
		Tags:        tagIDs,
		Ingredients: ingredients,
	}
}

func seedRecipe(t *testing.T, db *gorm.DB, recipes *service.RecipeService, author *models.User, name string, tag *models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	var ingredients []types.IngredientAmount
	for ing, amount := range amounts {
		ingredients = append(ingredients, types.IngredientAmount{ID: ing.ID, Amount: intPtr(amount)})
	}
	recipe, err := recipes.CreateRecipe(context.Background(), author.ID, recipeInput(name, []uuid.UUID{tag.ID}, ingredients))
	if err != nil {
		t.Fatalf("failed to seed recipe %s: %v", name, err)
	}
	return recipe
}
