package handler

import (
	"github.com/gin-gonic/gin"

	addressapp "github.com/commerce/backend/internal/application/address"
)

// AddressHandler handles the authenticated user's address book
type AddressHandler struct {
	BaseHandler
	addressService *addressapp.AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *addressapp.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// AddressRequest is the request body for creating or updating an address
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,min=1,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	Line3      string `json:"line3" binding:"max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	PostalCode string `json:"postal_code" binding:"required,min=1,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
}

// Create adds an address to the caller's address book
func (h *AddressHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.addressService.Create(c.Request.Context(), addressapp.CreateAddressInput{
		UserID:     userID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		Line3:      req.Line3,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAddressResponse(a))
}

// Get returns one of the caller's addresses
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	a, err := h.addressService.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(a))
}

// List returns the caller's address book
func (h *AddressHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addresses, err := h.addressService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponses(addresses))
}

// Update replaces the fields of one of the caller's addresses
func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.addressService.Update(c.Request.Context(), addressapp.UpdateAddressInput{
		AddressID:  id,
		UserID:     userID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		Line3:      req.Line3,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(a))
}

// Delete removes one of the caller's addresses
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefaultShipping marks an address as the default shipping address
func (h *AddressHandler) SetDefaultShipping(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	a, err := h.addressService.SetDefaultShipping(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(a))
}

// SetDefaultBilling marks an address as the default billing address
func (h *AddressHandler) SetDefaultBilling(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	a, err := h.addressService.SetDefaultBilling(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAddressResponse(a))
}
