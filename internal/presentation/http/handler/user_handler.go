package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userForm(req *request.UserRequest) *entity.UserForm {
	return &entity.UserForm{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      enum.Role(req.Role),
	}
}

// List handles listing users
// @Summary List users
// @Tags users
// @Produce json
// @Param search query string false "Name or email"
// @Param role query string false "Role"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var filter request.UserFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), user, &service.ListUsersInput{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Role:       enum.Role(filter.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Users retrieved successfully", result)
}

// Create handles creating a user
func (h *UserHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.CreateUser(c.Request.Context(), user, userForm(&req)); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", nil)
}

// Update handles updating a user
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.UpdateUser(c.Request.Context(), user, c.Param("id"), userForm(&req)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User updated successfully", nil)
}

// Delete handles deleting a user
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), user, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User deleted successfully", nil)
}

// Roles lists the roles that can be assigned from the users screen
func (h *UserHandler) Roles(c *gin.Context) {
	response.OK(c, "Roles retrieved successfully", h.userService.AssignableRoles())
}
