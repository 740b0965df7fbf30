package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/types"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination reads page and limit query parameters, clamping them
// to sane values. Pages are 1-based.
func parsePagination(c *gin.Context) (page, limit int) {
	page = 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// pageEnvelope wraps results with the total count and next/previous
// page links derived from the current request URL.
func pageEnvelope(c *gin.Context, count int64, page, limit int, results interface{}) types.Page {
	envelope := types.Page{Count: count, Results: results}
	if int64(page*limit) < count {
		envelope.Next = pageLink(c.Request.URL, page+1)
	}
	if page > 1 {
		envelope.Previous = pageLink(c.Request.URL, page-1)
	}
	return envelope
}

func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
