package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/commerce/backend/internal/application/identity"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=100"`
	Email       string      `json:"email" binding:"required,email"`
	Password    string      `json:"password" binding:"required,min=8,max=128"`
	FirstName   string      `json:"first_name" binding:"max=100"`
	LastName    string      `json:"last_name" binding:"max=100"`
	IsSuperuser bool        `json:"is_superuser"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
}

// UpdateUserRequest is the request body for updating a user profile
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
}

// GroupMembershipRequest names a group for assignment operations
type GroupMembershipRequest struct {
	GroupID uuid.UUID `json:"group_id" binding:"required"`
}

// Create creates a new user account
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identityapp.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsSuperuser: req.IsSuperuser,
		GroupIDs:    req.GroupIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserResponse(user))
}

// Get returns a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// List returns a paginated list of users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toUserResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Update updates a user's profile fields
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), identityapp.UpdateUserInput{
		UserID:    id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// Activate re-enables a deactivated user
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.userService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignGroup adds the user to a group
func (h *UserHandler) AssignGroup(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req GroupMembershipRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.userService.AssignGroup(c.Request.Context(), id, req.GroupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveGroup removes the user from a group
func (h *UserHandler) RemoveGroup(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	if err := h.userService.RemoveGroup(c.Request.Context(), id, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
