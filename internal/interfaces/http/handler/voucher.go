package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	voucherapp "github.com/commerce/backend/internal/application/voucher"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// VoucherHandler handles voucher administration endpoints
type VoucherHandler struct {
	BaseHandler
	voucherService *voucherapp.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *voucherapp.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// CreateVoucherRequest is the request body for creating a voucher
type CreateVoucherRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=100"`
	Code     string          `json:"code" binding:"required,min=3,max=40"`
	Usage    string          `json:"usage" binding:"required,oneof=SINGLE MULTIPLE ONCE_PER_CUSTOMER"`
	Discount decimal.Decimal `json:"discount" binding:"required"`
	StartsAt time.Time       `json:"starts_at" binding:"required"`
	EndsAt   time.Time       `json:"ends_at" binding:"required"`
}

// Create creates a new voucher
func (h *VoucherHandler) Create(c *gin.Context) {
	var req CreateVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v, err := h.voucherService.Create(c.Request.Context(), voucherapp.CreateVoucherInput{
		Name:     req.Name,
		Code:     req.Code,
		Usage:    req.Usage,
		Discount: req.Discount,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toVoucherResponse(v))
}

// Get returns a voucher by ID
func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	v, err := h.voucherService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// GetByCode returns a voucher by its redemption code
func (h *VoucherHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Code is required")
		return
	}

	v, err := h.voucherService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// List returns a paginated list of vouchers
func (h *VoucherHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.voucherService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toVoucherResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Activate enables a voucher for redemption
func (h *VoucherHandler) Activate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	v, err := h.voucherService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// Deactivate disables a voucher
func (h *VoucherHandler) Deactivate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	v, err := h.voucherService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// Delete removes an unredeemed voucher
func (h *VoucherHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.voucherService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
