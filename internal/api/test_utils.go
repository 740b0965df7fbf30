package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
	"github.com/platefeed/backend/internal/types"
)

const testJWTSecret = "test-jwt-secret"

// setupTestRouter builds a router over a fresh in-memory database.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	router := gin.New()
	SetupAPI(router, db, nil, testJWTSecret, nil)
	return router, db, service.NewAuthService(db, testJWTSecret)
}

// performRequest issues a request against the router. body may be nil;
// token may be empty for anonymous requests.
func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
}

func seedTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{
		Name:  name,
		Color: fmt.Sprintf("#%02X%02X%02X", name[0], name[len(name)-1], len(name)),
		Slug:  name,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	return tag
}

func seedTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}
	return ingredient
}

func seedTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string, tag *models.Tag, ingredient *models.Ingredient, amount int) *models.Recipe {
	t.Helper()
	recipes := service.NewRecipeService(db, nil)
	a := amount
	recipe, err := recipes.CreateRecipe(context.Background(), authorID, types.RecipeInput{
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 25,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []types.IngredientAmount{{ID: ingredient.ID, Amount: &a}},
	})
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return recipe
}
