package review

import (
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the review domain
const (
	EventTypeReviewSubmitted = "review.submitted"
	EventTypeReviewDeleted   = "review.deleted"
)

// ReviewSubmittedEvent is raised when a review is created or its rating
// changes. Handlers recompute the product's aggregate rating.
type ReviewSubmittedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
}

// NewReviewSubmittedEvent creates a new ReviewSubmittedEvent
func NewReviewSubmittedEvent(r *Review) *ReviewSubmittedEvent {
	return &ReviewSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewSubmitted, "Review", r.ID),
		ProductID:       r.ProductID,
		Rating:          r.Rating,
	}
}

// ReviewDeletedEvent is raised when a review is removed
type ReviewDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewReviewDeletedEvent creates a new ReviewDeletedEvent
func NewReviewDeletedEvent(reviewID, productID uuid.UUID) *ReviewDeletedEvent {
	return &ReviewDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewDeleted, "Review", reviewID),
		ProductID:       productID,
	}
}
