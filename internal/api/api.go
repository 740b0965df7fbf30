package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// SetupAPI wires services, handlers and routes onto the router.
// redisClient may be nil, which disables rate limiting.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, jwtSecret string, images *service.ImageService) {
	authService := service.NewAuthService(db, jwtSecret)
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	recipeService := service.NewRecipeService(db, images)
	favoriteService := service.NewFavoriteService(db)
	cartService := service.NewShoppingListService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	serializer := NewSerializer(followService, favoriteService, cartService, recipeService)
	limiter := middleware.NewRecipeCreationRateLimiter(redisClient)

	v1 := router.Group("/api")
	{
		NewAuthHandler(authService, serializer).RegisterRoutes(v1)
		NewUserHandler(userService, authService, followService, serializer).RegisterRoutes(v1)
		NewRecipeHandler(recipeService, favoriteService, cartService, authService, limiter, serializer).RegisterRoutes(v1)
		NewTagHandler(tagService).RegisterRoutes(v1)
		NewIngredientHandler(ingredientService).RegisterRoutes(v1)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
