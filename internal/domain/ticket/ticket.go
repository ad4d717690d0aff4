package ticket

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status enumerates the lifecycle states of a support ticket
type Status string

const (
	StatusInit       Status = "INIT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOnHold     Status = "ON_HOLD"
	StatusCompleted  Status = "COMPLETED"
	StatusReopened   Status = "REOPENED"
	StatusCanceled   Status = "CANCELED"
)

var ticketTransitions = map[Status][]Status{
	StatusInit:       {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusOnHold, StatusCompleted, StatusCanceled},
	StatusOnHold:     {StatusInProgress, StatusCanceled},
	StatusCompleted:  {StatusReopened},
	StatusReopened:   {StatusInProgress, StatusCompleted, StatusCanceled},
	StatusCanceled:   {},
}

// IsValid checks whether the status is a known value
func (s Status) IsValid() bool {
	_, ok := ticketTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus converts a string to a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_TICKET_STATUS", "Unknown ticket status: "+raw)
	}
	return s, nil
}

// Ticket is a customer support request, optionally tied to an order
type Ticket struct {
	shared.BaseAggregateRoot
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID  *uuid.UUID `gorm:"type:uuid;index"`
	Subject  string     `gorm:"type:varchar(200);not null"`
	Status   Status     `gorm:"type:varchar(20);not null;default:'INIT'"`
	Messages []Message  `gorm:"foreignKey:TicketID"`
}

// TableName returns the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

// Message is a single entry in a ticket conversation. AuthorID is the user
// or staff member who wrote it.
type Message struct {
	shared.BaseEntity
	TicketID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Body     string    `gorm:"type:text;not null"`
	IsStaff  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "ticket_messages"
}

// NewTicket opens a new ticket with an initial message
func NewTicket(userID uuid.UUID, orderID *uuid.UUID, subject, body string) (*Ticket, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET", "User ID is required")
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_TICKET", "Ticket subject cannot be empty")
	}
	if len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_TICKET", "Ticket subject cannot exceed 200 characters")
	}

	t := &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OrderID:           orderID,
		Subject:           subject,
		Status:            StatusInit,
		Messages:          make([]Message, 0),
	}

	if body = strings.TrimSpace(body); body != "" {
		t.Messages = append(t.Messages, Message{
			BaseEntity: shared.NewBaseEntity(),
			TicketID:   t.ID,
			AuthorID:   userID,
			Body:       body,
		})
	}

	return t, nil
}

// AddMessage appends a message to the ticket conversation. Writing to a
// canceled ticket is rejected; writing to a completed one reopens it.
func (t *Ticket) AddMessage(authorID uuid.UUID, body string, isStaff bool) error {
	if t.Status == StatusCanceled {
		return shared.NewDomainError("TICKET_CLOSED", "Cannot add messages to a canceled ticket")
	}
	if authorID == uuid.Nil {
		return shared.NewDomainError("INVALID_MESSAGE", "Author ID is required")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}

	if t.Status == StatusCompleted {
		if err := t.TransitionTo(StatusReopened); err != nil {
			return err
		}
	}

	t.Messages = append(t.Messages, Message{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   t.ID,
		AuthorID:   authorID,
		Body:       body,
		IsStaff:    isStaff,
	})
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// TransitionTo moves the ticket to the next status when the state machine
// allows it
func (t *Ticket) TransitionTo(next Status) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_TICKET_STATUS", "Unknown ticket status: "+string(next))
	}
	if !t.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition ticket from "+string(t.Status)+" to "+string(next))
	}

	t.Status = next
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}
