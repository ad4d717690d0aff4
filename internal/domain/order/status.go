package order

import "github.com/commerce/backend/internal/domain/shared"

// Status enumerates the lifecycle states of an order
type Status string

const (
	StatusInit       Status = "INIT"
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPaid       Status = "PAID"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
	StatusReturned   Status = "RETURNED"
)

// allowedTransitions is the order status state machine. An order advances
// through the happy path one step at a time; cancellation is possible until
// shipment, refunds after payment, returns after delivery.
var allowedTransitions = map[Status][]Status{
	StatusInit:       {StatusPending, StatusCancelled},
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusShipped, StatusCancelled, StatusRefunded},
	StatusShipped:    {StatusDelivered, StatusRefunded},
	StatusDelivered:  {StatusReturned, StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
	StatusReturned:   {StatusRefunded},
}

// IsValid checks whether the status is a known value
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition leaves the status
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine allows moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
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
		return "", shared.NewDomainError("INVALID_ORDER_STATUS", "Unknown order status: "+raw)
	}
	return s, nil
}
