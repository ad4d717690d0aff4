package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ticketapp "github.com/commerce/backend/internal/application/ticket"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/ticket"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// TicketHandler handles support ticket endpoints
type TicketHandler struct {
	BaseHandler
	ticketService *ticketapp.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *ticketapp.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// CreateTicketRequest is the request body for opening a ticket
type CreateTicketRequest struct {
	OrderID *uuid.UUID `json:"order_id"`
	Subject string     `json:"subject" binding:"required,min=1,max=200"`
	Body    string     `json:"body" binding:"max=10000"`
}

// TicketMessageRequest is the request body for adding a message
type TicketMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=10000"`
}

// TicketTransitionRequest is the request body for a status change
type TicketTransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func isTicketStaff(c *gin.Context) bool {
	return hasPermission(c, identity.CodeManageTickets)
}

// Create opens a new ticket for the authenticated user
func (h *TicketHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTicketRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.ticketService.Create(c.Request.Context(), ticketapp.CreateTicketInput{
		UserID:  userID,
		OrderID: req.OrderID,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTicketResponse(t))
}

// Get returns a ticket visible to the caller
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	t, err := h.ticketService.Get(c.Request.Context(), id, userID, isTicketStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(t))
}

// ListMine returns the authenticated user's tickets
func (h *TicketHandler) ListMine(c *gin.Context) {
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

	result, err := h.ticketService.ListByUser(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toTicketResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// List returns all tickets, optionally filtered by status
func (h *TicketHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	var (
		result *shared.Paginated[*ticket.Ticket]
		err    error
	)
	if status := c.Query("status"); status != "" {
		result, err = h.ticketService.ListByStatus(c.Request.Context(), status, req.ToFilter())
	} else {
		result, err = h.ticketService.List(c.Request.Context(), req.ToFilter())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toTicketResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// AddMessage appends a message to the ticket conversation
func (h *TicketHandler) AddMessage(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TicketMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.ticketService.AddMessage(c.Request.Context(), ticketapp.AddMessageInput{
		TicketID: id,
		AuthorID: userID,
		IsStaff:  isTicketStaff(c),
		Body:     req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(t))
}

// Transition moves a ticket through its workflow
func (h *TicketHandler) Transition(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req TicketTransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.ticketService.Transition(c.Request.Context(), ticketapp.TransitionInput{
		TicketID: id,
		Status:   req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTicketResponse(t))
}
