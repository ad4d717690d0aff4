package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/commerce/backend/internal/application/order"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderLineRequest is a single product position in a checkout request
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the request body for opening an order
type CreateOrderRequest struct {
	AddressID *uuid.UUID         `json:"address_id"`
	Lines     []OrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// CreateGuestOrderRequest is the request body for a guest checkout
type CreateGuestOrderRequest struct {
	GuestEmail string             `json:"guest_email" binding:"required,email"`
	Lines      []OrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// AddLineRequest is the request body for adding a product to an order
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// SetOrderAddressRequest is the request body for attaching an address
type SetOrderAddressRequest struct {
	AddressID uuid.UUID `json:"address_id" binding:"required"`
}

// ApplyVoucherRequest is the request body for redeeming a voucher code
type ApplyVoucherRequest struct {
	Code string `json:"code" binding:"required,min=3,max=40"`
}

// ChangeOrderStatusRequest is the request body for a status transition
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toLineInputs(lines []OrderLineRequest) []orderapp.OrderLineInput {
	out := make([]orderapp.OrderLineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderapp.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// ownedOrder loads an order and verifies the caller may act on it.
// Returns false after writing the error response.
func (h *OrderHandler) ownedOrder(c *gin.Context, id uuid.UUID) (*order.Order, bool) {
	o, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}

	if hasPermission(c, identity.CodeManageOrders) {
		return o, true
	}

	userID, err := getUserID(c)
	if err != nil || o.UserID == nil || *o.UserID != userID {
		h.Forbidden(c, "You do not have access to this order")
		return nil, false
	}

	return o, true
}

// Create opens an order for the authenticated user
func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.Create(c.Request.Context(), orderapp.CreateOrderInput{
		UserID:    &userID,
		AddressID: req.AddressID,
		Lines:     toLineInputs(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrderResponse(o))
}

// CreateGuest opens an order for an unauthenticated shopper
func (h *OrderHandler) CreateGuest(c *gin.Context) {
	var req CreateGuestOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.Create(c.Request.Context(), orderapp.CreateOrderInput{
		GuestEmail: req.GuestEmail,
		Lines:      toLineInputs(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrderResponse(o))
}

// Get returns an order visible to the caller
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	o, ok := h.ownedOrder(c, id)
	if !ok {
		return
	}

	h.Success(c, toOrderResponse(o))
}

// Track returns a guest order by number. The guest email must match so
// order numbers alone cannot be enumerated.
func (h *OrderHandler) Track(c *gin.Context) {
	number := c.Param("number")
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if number == "" || email == "" {
		h.BadRequest(c, "Order number and email are required")
		return
	}

	o, err := h.orderService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if o.GuestEmail == "" || o.GuestEmail != email {
		h.NotFound(c, "Order not found")
		return
	}

	h.Success(c, toOrderResponse(o))
}

// List returns a paginated list of all orders
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// ListMine returns the authenticated user's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
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

	result, err := h.orderService.ListByUser(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// AddLine adds a product position to an open order
func (h *OrderHandler) AddLine(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if _, ok := h.ownedOrder(c, id); !ok {
		return
	}

	var req AddLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.AddLine(c.Request.Context(), orderapp.AddLineInput{
		OrderID:   id,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// RemoveLine removes a product position from an open order
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if _, ok := h.ownedOrder(c, id); !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	o, err := h.orderService.RemoveLine(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// SetAddress attaches a delivery address to an open order
func (h *OrderHandler) SetAddress(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if _, ok := h.ownedOrder(c, id); !ok {
		return
	}

	var req SetOrderAddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.SetAddress(c.Request.Context(), id, req.AddressID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// ApplyVoucher redeems a voucher code against an open order
func (h *OrderHandler) ApplyVoucher(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if _, ok := h.ownedOrder(c, id); !ok {
		return
	}

	var req ApplyVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.ApplyVoucher(c.Request.Context(), orderapp.ApplyVoucherInput{
		OrderID: id,
		Code:    req.Code,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// ChangeStatus moves an order through its lifecycle
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req ChangeOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.ChangeStatus(c.Request.Context(), orderapp.ChangeStatusInput{
		OrderID: id,
		Status:  req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// Cancel cancels an order that has not yet shipped
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}
	if _, ok := h.ownedOrder(c, id); !ok {
		return
	}

	o, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}
