package review

import "github.com/google/uuid"

// SubmitReviewInput creates or replaces the caller's review of a product
type SubmitReviewInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	UserID    uuid.UUID `json:"-"`
	Rating    int       `json:"rating" validate:"min=0,max=5"`
	Title     string    `json:"title" validate:"required,min=1,max=200"`
	Body      string    `json:"body" validate:"max=5000"`
}

// UpdateReviewInput changes an existing review
type UpdateReviewInput struct {
	ReviewID uuid.UUID `json:"-"`
	UserID   uuid.UUID `json:"-"`
	Rating   int       `json:"rating" validate:"min=0,max=5"`
	Title    string    `json:"title" validate:"required,min=1,max=200"`
	Body     string    `json:"body" validate:"max=5000"`
}
