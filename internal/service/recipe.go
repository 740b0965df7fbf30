package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// RecipeService handles recipe CRUD, the submission validation rule and
// filtered listing.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// RecipeFilter narrows recipe listing. Nil fields are ignored.
// IsFavorited and IsInShoppingCart are relative to the acting user;
// anonymous requests using them yield an empty page.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uuid.UUID
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// ValidateRecipeInput applies the recipe submission rule in a fixed
// order: empty tag set, empty ingredient list, duplicate tags, cooking
// time bounds, then per-ingredient amount and duplication checks in
// submitted order. Referenced tag and ingredient existence is checked
// separately at resolution time.
func ValidateRecipeInput(input types.RecipeInput) error {
	if len(input.Tags) == 0 {
		return validationErrorf("a recipe needs at least one tag")
	}
	if len(input.Ingredients) == 0 {
		return validationErrorf("a recipe needs at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Tags))
	for _, tagID := range input.Tags {
		if _, dup := seen[tagID]; dup {
			return validationErrorf("tag %s is listed more than once", tagID)
		}
		seen[tagID] = struct{}{}
	}
	if input.CookingTime < models.MinCookingTime {
		return validationErrorf("cooking time cannot be less than %d minute", models.MinCookingTime)
	}
	if input.CookingTime > models.MaxCookingTime {
		return validationErrorf("cooking time cannot exceed %d minutes", models.MaxCookingTime)
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if ing.Amount == nil {
			return validationErrorf("ingredient %s is missing an amount", ing.ID)
		}
		if *ing.Amount < 1 {
			return validationErrorf("amount for ingredient %s cannot be less than 1", ing.ID)
		}
		if _, dup := seenIngredients[ing.ID]; dup {
			return validationErrorf("ingredient %s is listed more than once", ing.ID)
		}
		seenIngredients[ing.ID] = struct{}{}
	}
	return nil
}

// resolveAssociations loads the referenced tags and ingredients,
// failing with a validation error when any ID is unknown.
func (s *RecipeService) resolveAssociations(ctx context.Context, input types.RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", input.Tags).Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if len(tags) != len(input.Tags) {
		return nil, nil, validationErrorf("one or more tags do not exist")
	}

	ingredientIDs := make([]uuid.UUID, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		ingredientIDs[i] = ing.ID
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count != int64(len(ingredientIDs)) {
		return nil, nil, validationErrorf("one or more ingredients do not exist")
	}

	rows := make([]models.RecipeIngredient, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		rows[i] = models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       *ing.Amount,
		}
	}
	return tags, rows, nil
}

// CreateRecipe validates and persists a new recipe for the author.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, input types.RecipeInput) (*models.Recipe, error) {
	if err := ValidateRecipeInput(input); err != nil {
		return nil, err
	}
	tags, ingredientRows, err := s.resolveAssociations(ctx, input)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		ImageURL:    imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Tags:        tags,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for i := range ingredientRows {
			ingredientRows[i].RecipeID = recipe.ID
		}
		return tx.Create(&ingredientRows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces a recipe's fields and associations. The author
// check precedes validation and fails with an authorization error
// regardless of payload validity.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actingUserID, recipeID uuid.UUID, input types.RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actingUserID {
		return nil, ErrNotRecipeAuthor
	}

	if err := ValidateRecipeInput(input); err != nil {
		return nil, err
	}
	tags, ingredientRows, err := s.resolveAssociations(ctx, input)
	if err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if input.Image != "" {
		imageURL, err = s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"cooking_time": input.CookingTime,
			"image_url":    imageURL,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range ingredientRows {
			ingredientRows[i].RecipeID = recipe.ID
		}
		return tx.Create(&ingredientRows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes a recipe and its dependent rows. Author-only.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actingUserID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != actingUserID {
		return ErrNotRecipeAuthor
	}

	// Dependent rows are removed explicitly so the behavior does not
	// hinge on foreign-key enforcement being enabled on the dialect.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// GetRecipe retrieves a recipe with its author, tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, narrowed by
// the filter. actingUserID may be nil for anonymous requests; the
// membership filters then produce an empty page rather than an error.
func (s *RecipeService) ListRecipes(ctx context.Context, actingUserID *uuid.UUID, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	if actingUserID == nil && (filter.IsFavorited != nil || filter.IsInShoppingCart != nil) {
		return []models.Recipe{}, 0, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.IsFavorited != nil {
		favorited := s.db.Table("favorite_recipes").
			Select("favorite_recipes.recipe_id").
			Where("favorite_recipes.user_id = ?", *actingUserID)
		if *filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", favorited)
		} else {
			query = query.Where("recipes.id NOT IN (?)", favorited)
		}
	}
	if filter.IsInShoppingCart != nil {
		inCart := s.db.Table("shopping_list_items").
			Select("shopping_list_items.recipe_id").
			Where("shopping_list_items.user_id = ?", *actingUserID)
		if *filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", inCart)
		} else {
			query = query.Where("recipes.id NOT IN (?)", inCart)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns an author's recipes, newest first, capped at
// limit when limit > 0. Used by subscription views.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if image == "" || s.images == nil {
		return image, nil
	}
	return s.images.Store(ctx, image)
}
