package apihelpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type PaginatedQuery struct {
	Page  int64
	Limit int64
}

// ParsePaginatedQueryFromCtx reads page and limit query params, clamping
// page to >= 1 and limit to [1, maxLimit].
func ParsePaginatedQueryFromCtx(c *gin.Context, defaultLimit int64, maxLimit int64) PaginatedQuery {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.FormatInt(defaultLimit, 10)), 10, 64)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return PaginatedQuery{
		Page:  page,
		Limit: limit,
	}
}
