package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// UserHandler serves user profiles, password changes and
// subscriptions.
type UserHandler struct {
	users      *service.UserService
	auth       *service.AuthService
	follows    *service.FollowService
	serializer *Serializer
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, follows *service.FollowService, serializer *Serializer) *UserHandler {
	return &UserHandler{users: users, auth: auth, follows: follows, serializer: serializer}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.auth), h.List)
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.Subscriptions)
		users.POST("/set_password", middleware.AuthMiddleware(h.auth), h.SetPassword)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.Get)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.users.ListUsers(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.serializer.UserViews(c.Request.Context(), middleware.OptionalUserID(c), users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, total, page, limit, views))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrUserNotFound)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.serializer.UserView(c.Request.Context(), middleware.OptionalUserID(c), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.serializer.UserView(c.Request.Context(), &userID, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrUserNotFound)
		return
	}

	author, err := h.follows.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.serializer.SubscriptionViews(c.Request.Context(), userID, []models.User{*author}, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, views[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrUserNotFound)
		return
	}
	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	page, limit := parsePagination(c)
	authors, total, err := h.follows.Subscriptions(c.Request.Context(), userID, (page-1)*limit, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.serializer.SubscriptionViews(c.Request.Context(), userID, authors, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(c, total, page, limit, views))
}

// recipesLimit reads the recipes_limit query parameter capping how
// many recipes each subscription entry carries. 0 means uncapped.
func recipesLimit(c *gin.Context) int {
	if v, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && v > 0 {
		return v
	}
	return 0
}
