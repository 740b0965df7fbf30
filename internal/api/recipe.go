package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// RecipeHandler serves recipe CRUD, favorites and the shopping cart.
type RecipeHandler struct {
	recipes    *service.RecipeService
	favorites  *service.FavoriteService
	cart       *service.ShoppingListService
	auth       *service.AuthService
	limiter    *middleware.RateLimiter
	serializer *Serializer
}

func NewRecipeHandler(recipes *service.RecipeService, favorites *service.FavoriteService, cart *service.ShoppingListService, auth *service.AuthService, limiter *middleware.RateLimiter, serializer *Serializer) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, favorites: favorites, cart: cart, auth: auth, limiter: limiter, serializer: serializer}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.List)
		recipes.POST("", middleware.AuthMiddleware(h.auth), h.limiter.RateLimitMiddleware(), h.Create)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.Get)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.auth), h.Update)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.auth), h.Update)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.Delete)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.auth), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.auth), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	actingUserID := middleware.OptionalUserID(c)

	filter := service.RecipeFilter{}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			// An unknown author matches nothing.
			c.JSON(http.StatusOK, pageEnvelope(c, 0, 1, defaultPageSize, []types.RecipeView{}))
			return
		}
		filter.AuthorID = &id
	}
	if v, ok := boolQuery(c, "is_favorited"); ok {
		filter.IsFavorited = &v
	}
	if v, ok := boolQuery(c, "is_in_shopping_cart"); ok {
		filter.IsInShoppingCart = &v
	}

	page, limit := parsePagination(c)
	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), actingUserID, filter, (page-1)*limit, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.serializer.RecipeViews(c.Request.Context(), actingUserID, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, total, page, limit, views))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.serializer.RecipeView(c.Request.Context(), middleware.OptionalUserID(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.serializer.RecipeView(c.Request.Context(), &userID, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.serializer.RecipeView(c.Request.Context(), &userID, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addToCollection(c, h.favorites.Add)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeFromCollection(c, h.favorites.Remove)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addToCollection(c, h.cart.Add)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeFromCollection(c, h.cart.Remove)
}

// DownloadShoppingCart renders the aggregated shopping list as a plain
// text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	items, err := h.cart.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	body := service.RenderShoppingList(items)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

type collectionAdd func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)

type collectionRemove func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) addToCollection(c *gin.Context, add collectionAdd) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &service.ValidationError{Message: "recipe does not exist"})
		return
	}
	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipeShortView(recipe))
}

func (h *RecipeHandler) removeFromCollection(c *gin.Context, remove collectionRemove) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRecipeNotFound)
		return
	}
	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// boolQuery parses 1/0 and true/false query flags.
func boolQuery(c *gin.Context, name string) (value, ok bool) {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	default:
		return false, false
	}
}
