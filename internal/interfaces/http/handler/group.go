package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/commerce/backend/internal/application/identity"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// GroupHandler handles permission group endpoints
type GroupHandler struct {
	BaseHandler
	groupService *identityapp.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *identityapp.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest is the request body for creating a group
type CreateGroupRequest struct {
	Name          string      `json:"name" binding:"required,min=1,max=100"`
	Description   string      `json:"description" binding:"max=2000"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// UpdateGroupRequest is the request body for updating a group
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// PermissionGrantRequest names a permission for grant operations
type PermissionGrantRequest struct {
	PermissionID uuid.UUID `json:"permission_id" binding:"required"`
}

// Create creates a new group
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), identityapp.CreateGroupInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toGroupResponse(group))
}

// Get returns a group by ID
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupResponse(group))
}

// List returns a paginated list of groups
func (h *GroupHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.groupService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toGroupResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Update renames a group
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), identityapp.UpdateGroupInput{
		GroupID:     id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupResponse(group))
}

// Activate re-enables a group
func (h *GroupHandler) Activate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	group, err := h.groupService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupResponse(group))
}

// Deactivate disables a group; its permissions stop applying to members
func (h *GroupHandler) Deactivate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	group, err := h.groupService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupResponse(group))
}

// GrantPermission attaches a permission to the group
func (h *GroupHandler) GrantPermission(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req PermissionGrantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.groupService.GrantPermission(c.Request.Context(), id, req.PermissionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RevokePermission detaches a permission from the group
func (h *GroupHandler) RevokePermission(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	permissionID, err := uuid.Parse(c.Param("permissionId"))
	if err != nil {
		h.BadRequest(c, "Invalid permission ID format")
		return
	}

	if err := h.groupService.RevokePermission(c.Request.Context(), id, permissionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a group
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
