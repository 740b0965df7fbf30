package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// Serializer builds API views from records. Which representation a
// user gets (plain or subscription entry) is the caller's choice, and
// the acting user is always passed explicitly; nil means anonymous.
type Serializer struct {
	follows   *service.FollowService
	favorites *service.FavoriteService
	cart      *service.ShoppingListService
	recipes   *service.RecipeService
}

func NewSerializer(
	follows *service.FollowService,
	favorites *service.FavoriteService,
	cart *service.ShoppingListService,
	recipes *service.RecipeService,
) *Serializer {
	return &Serializer{follows: follows, favorites: favorites, cart: cart, recipes: recipes}
}

// UserViews builds plain user views for a batch of users with a single
// subscription lookup.
func (s *Serializer) UserViews(ctx context.Context, actingUserID *uuid.UUID, users []models.User) ([]types.UserView, error) {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := s.follows.SubscribedSet(ctx, actingUserID, ids)
	if err != nil {
		return nil, err
	}
	views := make([]types.UserView, len(users))
	for i, u := range users {
		views[i] = types.UserView{
			Email:        u.Email,
			ID:           u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: subscribed[u.ID],
		}
	}
	return views, nil
}

func (s *Serializer) UserView(ctx context.Context, actingUserID *uuid.UUID, user *models.User) (types.UserView, error) {
	views, err := s.UserViews(ctx, actingUserID, []models.User{*user})
	if err != nil {
		return types.UserView{}, err
	}
	return views[0], nil
}

// SubscriptionViews builds subscription entries for followed authors,
// each carrying a capped list of the author's recipes.
// recipesLimit <= 0 means no cap.
func (s *Serializer) SubscriptionViews(ctx context.Context, actingUserID uuid.UUID, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	userViews, err := s.UserViews(ctx, &actingUserID, authors)
	if err != nil {
		return nil, err
	}
	views := make([]types.SubscriptionView, len(authors))
	for i, author := range authors {
		recipes, total, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views[i] = types.SubscriptionView{
			Email:        userViews[i].Email,
			ID:           userViews[i].ID,
			Username:     userViews[i].Username,
			FirstName:    userViews[i].FirstName,
			LastName:     userViews[i].LastName,
			IsSubscribed: userViews[i].IsSubscribed,
			Recipes:      RecipeShortViews(recipes),
			RecipesCount: total,
		}
	}
	return views, nil
}

// RecipeViews builds full recipe views for a batch of recipes. The
// recipes must be loaded with Author, Tags and Ingredients.
func (s *Serializer) RecipeViews(ctx context.Context, actingUserID *uuid.UUID, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authors := make([]models.User, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authors[i] = r.Author
	}

	favorited, err := s.favorites.FavoritedSet(ctx, actingUserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.InCartSet(ctx, actingUserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	authorViews, err := s.UserViews(ctx, actingUserID, authors)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i, r := range recipes {
		tags := make([]types.TagView, len(r.Tags))
		for j, t := range r.Tags {
			tags[j] = types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
		}
		ingredients := make([]types.RecipeIngredientView, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}
		views[i] = types.RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           authorViews[i],
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}

func (s *Serializer) RecipeView(ctx context.Context, actingUserID *uuid.UUID, recipe *models.Recipe) (types.RecipeView, error) {
	views, err := s.RecipeViews(ctx, actingUserID, []models.Recipe{*recipe})
	if err != nil {
		return types.RecipeView{}, err
	}
	return views[0], nil
}

// RecipeShortViews builds compact recipe views. No per-user fields, so
// no acting user is needed.
func RecipeShortViews(recipes []models.Recipe) []types.RecipeShortView {
	views := make([]types.RecipeShortView, len(recipes))
	for i, r := range recipes {
		views[i] = types.RecipeShortView{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		}
	}
	return views
}

func recipeShortView(r *models.Recipe) types.RecipeShortView {
	return RecipeShortViews([]models.Recipe{*r})[0]
}
