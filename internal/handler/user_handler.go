package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	userService service.UserService
	caps        service.CapabilityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, caps service.CapabilityService) *UserHandler {
	return &UserHandler{userService: userService, caps: caps}
}

// UserDetail is a user together with the capabilities granted on top of
// their role.
type UserDetail struct {
	*domain.User
	Grants []domain.Capability `json:"grants"`
}

// Create handles POST /api/v1/users
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User details"
// @Success 201 {object} Response{data=domain.User} "User created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Missing user:manage"
// @Failure 409 {object} ErrorResponseBody "Username already exists"
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}

// List handles GET /api/v1/users
// @Summary List users
// @Tags users
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.User,meta=PagMeta} "List of users"
// @Failure 403 {object} ErrorResponseBody "Missing user:manage"
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	users, total, err := h.userService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, users, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/users/:id
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} Response{data=UserDetail} "User details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	grants, err := h.caps.Grants(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, UserDetail{User: user, Grants: grants})
}

// Update handles PUT /api/v1/users/:id
// @Summary Update a user
// @Description Change profile fields, role, active flag or password
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} Response{data=domain.User} "User updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "User not found"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// Delete handles DELETE /api/v1/users/:id
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} Response "User deleted"
// @Failure 400 {object} ErrorResponseBody "Cannot delete yourself"
// @Failure 404 {object} ErrorResponseBody "User not found"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	currentUserID, ok := extractUserID(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}
	if userID == currentUserID {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cannot delete your own account")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "user deleted"})
}

// SetCapabilities handles PUT /api/v1/users/:id/capabilities
// @Summary Replace a user's extra capabilities
// @Description Grants are added on top of the role defaults; unknown names are rejected
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Param request body SetCapabilitiesRequest true "Capability names"
// @Success 200 {object} Response{data=[]string} "Stored grants"
// @Failure 400 {object} ErrorResponseBody "Unknown capability"
// @Failure 404 {object} ErrorResponseBody "User not found"
// @Security BearerAuth
// @Router /users/{id}/capabilities [put]
func (h *UserHandler) SetCapabilities(c *gin.Context) {
	grantedBy, ok := extractUserID(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req SetCapabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	grants, err := h.caps.SetGrants(c.Request.Context(), userID, req.Capabilities, grantedBy)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, grants)
}
