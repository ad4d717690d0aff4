package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/commerce/backend/internal/application/identity"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// PermissionHandler handles permission catalog endpoints
type PermissionHandler struct {
	BaseHandler
	permissionService *identityapp.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissionService *identityapp.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// CreatePermissionRequest is the request body for creating a permission
type CreatePermissionRequest struct {
	Action      string `json:"action" binding:"required"`
	Object      string `json:"object" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"omitempty,max=255"`
	Description string `json:"description"`
}

// Create registers a new permission
func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	permission, err := h.permissionService.Create(c.Request.Context(), identityapp.CreatePermissionInput{
		Action:      req.Action,
		Object:      req.Object,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPermissionResponse(permission))
}

// Get returns a permission by ID
func (h *PermissionHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	permission, err := h.permissionService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPermissionResponse(permission))
}

// List returns a paginated list of permissions
func (h *PermissionHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.permissionService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPermissionResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Delete removes a permission
func (h *PermissionHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.permissionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
