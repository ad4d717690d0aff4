package review

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Rating bounds for product reviews
const (
	MinRating = 0
	MaxRating = 5
)

// Vote values
const (
	VoteUp   = 1
	VoteDown = -1
)

// Review is a customer's rating of a product. Each user reviews a product
// at most once; other users vote reviews up or down, and TotalVotes is the
// signed sum of those votes.
type Review struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating     int       `gorm:"not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Body       string    `gorm:"type:text"`
	TotalVotes int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "product_reviews"
}

// Vote records a user's up or down vote on a review. Value is +1 or -1.
type Vote struct {
	shared.BaseEntity
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_review_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_review_user"`
	Value    int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Vote) TableName() string {
	return "review_votes"
}

// NewReview creates a new product review
func NewReview(productID, userID uuid.UUID, rating int, title, body string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Product ID is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEW", "User ID is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Review title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_REVIEW", "Review title cannot exceed 200 characters")
	}

	r := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Title:             title,
		Body:              strings.TrimSpace(body),
	}

	r.AddDomainEvent(NewReviewSubmittedEvent(r))

	return r, nil
}

// Update changes the review's rating, title, and body
func (r *Review) Update(rating int, title, body string) error {
	if err := validateRating(rating); err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_REVIEW", "Review title cannot be empty")
	}

	r.Rating = rating
	r.Title = title
	r.Body = strings.TrimSpace(body)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewSubmittedEvent(r))

	return nil
}

// RecordVote adds a signed vote value to the running total
func (r *Review) RecordVote(value int) {
	r.TotalVotes += value
	r.UpdatedAt = time.Now()
}

// NewVote creates an up or down vote by a user on a review
func NewVote(reviewID, userID uuid.UUID, value int) (*Vote, error) {
	if reviewID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VOTE", "Review ID and user ID are required")
	}
	if value != VoteUp && value != VoteDown {
		return nil, shared.NewDomainError("INVALID_VOTE", "Vote value must be 1 or -1")
	}

	return &Vote{
		BaseEntity: shared.NewBaseEntity(),
		ReviewID:   reviewID,
		UserID:     userID,
		Value:      value,
	}, nil
}

// validateRating validates a review rating
func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	return nil
}
