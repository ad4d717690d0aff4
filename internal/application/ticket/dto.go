package ticket

import "github.com/google/uuid"

// CreateTicketInput opens a support ticket with an initial message
type CreateTicketInput struct {
	UserID  uuid.UUID  `json:"-"`
	OrderID *uuid.UUID `json:"order_id"`
	Subject string     `json:"subject" validate:"required,min=1,max=200"`
	Body    string     `json:"body" validate:"max=10000"`
}

// AddMessageInput appends a message to a ticket conversation
type AddMessageInput struct {
	TicketID uuid.UUID `json:"-"`
	AuthorID uuid.UUID `json:"-"`
	IsStaff  bool      `json:"-"`
	Body     string    `json:"body" validate:"required,min=1,max=10000"`
}

// TransitionInput moves a ticket to the given status
type TransitionInput struct {
	TicketID uuid.UUID `json:"-"`
	Status   string    `json:"status" validate:"required"`
}
