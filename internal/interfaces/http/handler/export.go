package handler

import (
	"github.com/gin-gonic/gin"

	exportapp "github.com/commerce/backend/internal/application/export"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// ExportHandler handles CSV export endpoints
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RequestExportRequest is the request body for queuing an export
type RequestExportRequest struct {
	Resource string `json:"resource" binding:"required,oneof=orders products users"`
}

func isExportStaff(c *gin.Context) bool {
	return hasPermission(c, identity.CodeManageExports)
}

// Request queues a new export job
func (h *ExportHandler) Request(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RequestExportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.exportService.Request(c.Request.Context(), exportapp.RequestExportInput{
		RequestedBy: userID,
		Resource:    req.Resource,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toExportResponse(e))
}

// Get returns an export job visible to the caller
func (h *ExportHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	e, err := h.exportService.Get(c.Request.Context(), id, userID, isExportStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toExportResponse(e))
}

// ListMine returns the caller's export jobs
func (h *ExportHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.exportService.ListByUser(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toExportResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Download returns a presigned URL for a completed export
func (h *ExportHandler) Download(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.exportService.DownloadURL(c.Request.Context(), id, userID, isExportStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
