package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// FavoriteService handles the idempotent favorite membership. Duplicate
// detection rides on the (user, recipe) unique index: the insert is
// attempted directly and a constraint violation maps to the conflict
// error, so concurrent adds cannot slip through.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add favorites a recipe for the user and returns the recipe.
// Referencing a recipe that does not exist is a malformed request, not
// a lookup miss.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("recipe %s does not exist", recipeID)
		}
		return nil, err
	}

	fav := models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return &recipe, nil
}

// Remove deletes the favorite join record.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

// FavoritedSet reports which of the given recipes the user has
// favorited. A nil user yields an empty set.
func (s *FavoriteService) FavoritedSet(ctx context.Context, userID *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == nil || len(recipeIDs) == 0 {
		return set, nil
	}
	var favorited []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).
		Where("user_id = ? AND recipe_id IN ?", *userID, recipeIDs).
		Pluck("recipe_id", &favorited).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favorited {
		set[id] = true
	}
	return set, nil
}
