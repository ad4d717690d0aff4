package ticket

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketService handles support tickets and their conversations
type TicketService struct {
	ticketRepo ticket.Repository
	orderRepo  order.Repository
	logger     *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo ticket.Repository, orderRepo order.Repository, logger *zap.Logger) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// Create opens a ticket. When the ticket references an order, the order must
// exist and belong to the opening user.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*ticket.Ticket, error) {
	if input.OrderID != nil {
		o, err := s.orderRepo.FindByID(ctx, *input.OrderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
			}
			return nil, err
		}
		if o.UserID == nil || *o.UserID != input.UserID {
			return nil, shared.NewDomainError("ORDER_NOT_OWNED", "Order does not belong to the requesting user")
		}
	}

	t, err := ticket.NewTicket(input.UserID, input.OrderID, input.Subject, input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Save(ctx, t); err != nil {
		s.logger.Error("Failed to save ticket", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create ticket")
	}

	s.logger.Info("Ticket opened",
		zap.String("ticket_id", t.ID.String()),
		zap.String("user_id", t.UserID.String()))

	return t, nil
}

// Get retrieves a ticket. Non-staff callers can only read their own tickets.
func (s *TicketService) Get(ctx context.Context, id, callerID uuid.UUID, isStaff bool) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && t.UserID != callerID {
		return nil, shared.ErrForbidden
	}
	return t, nil
}

// ListByUser retrieves a user's tickets
func (s *TicketService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	return s.ticketRepo.FindByUser(ctx, userID, filter)
}

// ListByStatus retrieves tickets in a given status, for the staff queue
func (s *TicketService) ListByStatus(ctx context.Context, status string, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	parsed, err := ticket.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.ticketRepo.FindByStatus(ctx, parsed, filter)
}

// List retrieves tickets matching the filter
func (s *TicketService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	tickets, err := s.ticketRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(tickets, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddMessage appends a message to the ticket conversation. Customers can
// only write to their own tickets; staff can write to any.
func (s *TicketService) AddMessage(ctx context.Context, input AddMessageInput) (*ticket.Ticket, error) {
	return s.updateTicket(ctx, input.TicketID, func(t *ticket.Ticket) error {
		if !input.IsStaff && t.UserID != input.AuthorID {
			return shared.ErrForbidden
		}
		return t.AddMessage(input.AuthorID, input.Body, input.IsStaff)
	})
}

// Transition moves a ticket through its state machine
func (s *TicketService) Transition(ctx context.Context, input TransitionInput) (*ticket.Ticket, error) {
	status, err := ticket.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	return s.updateTicket(ctx, input.TicketID, func(t *ticket.Ticket) error {
		return t.TransitionTo(status)
	})
}

// updateTicket loads, mutates, and saves a ticket
func (s *TicketService) updateTicket(ctx context.Context, id uuid.UUID, mutate func(*ticket.Ticket) error) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(t); err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Save(ctx, t); err != nil {
		s.logger.Error("Failed to save ticket", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update ticket")
	}

	return t, nil
}
