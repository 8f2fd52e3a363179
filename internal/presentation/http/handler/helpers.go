package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
	"github.com/sangkips/pos-console/pkg/pagination"
)

// currentUser returns the logged-in operator, writing a 401 when there is none
func currentUser(c *gin.Context) (*entity.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Not logged in")
		return nil, false
	}
	return user, true
}

// indexParam parses a zero-based line index from the path
func indexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return index, true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}
