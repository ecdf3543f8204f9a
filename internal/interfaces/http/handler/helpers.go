package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/budgeterp/backend/internal/interfaces/http/dto"
)

// bindListFilter binds common pagination query parameters and the named
// extra query filters into a repository filter. Extra filters are
// copied verbatim when present and non-empty.
func bindListFilter(c *gin.Context, extraKeys ...string) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  make(map[string]interface{}),
	}
	for _, key := range extraKeys {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}
	return filter, nil
}

// parseIDParam parses the named path parameter as a UUID
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
