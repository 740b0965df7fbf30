package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// TagHandler serves the read-only tag catalog.
type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.List)
		tags.GET("/:id", h.Get)
	}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]types.TagView, len(tags))
	for i, t := range tags {
		views[i] = types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
	}
	c.JSON(http.StatusOK, views)
}

func (h *TagHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrTagNotFound)
		return
	}
	tag, err := h.tags.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug})
}
