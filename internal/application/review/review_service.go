package review

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/review"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles product reviews and helpful votes
type ReviewService struct {
	reviewRepo  review.Repository
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo review.Repository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Submit creates the caller's review of a product. Each user reviews a
// product at most once; resubmitting updates the existing review.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*review.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	existing, err := s.reviewRepo.FindByProductAndUser(ctx, input.ProductID, input.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var r *review.Review
	if existing != nil {
		if err := existing.Update(input.Rating, input.Title, input.Body); err != nil {
			return nil, err
		}
		r = existing
	} else {
		r, err = review.NewReview(input.ProductID, input.UserID, input.Rating, input.Title, input.Body)
		if err != nil {
			return nil, err
		}
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to submit review")
	}

	s.publishEvents(ctx, r)
	s.logger.Info("Review submitted",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", r.ProductID.String()),
		zap.Int("rating", r.Rating))

	return r, nil
}

// Update changes the caller's own review
func (s *ReviewService) Update(ctx context.Context, input UpdateReviewInput) (*review.Review, error) {
	r, err := s.reviewRepo.FindByID(ctx, input.ReviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != input.UserID {
		return nil, shared.ErrForbidden
	}

	if err := r.Update(input.Rating, input.Title, input.Body); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update review")
	}

	s.publishEvents(ctx, r)

	return r, nil
}

// Delete removes a review. Owners may delete their own review; moderators
// pass isModerator to remove any review.
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID uuid.UUID, isModerator bool) error {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isModerator && r.UserID != callerID {
		return shared.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete review")
	}

	event := review.NewReviewDeletedEvent(r.ID, r.ProductID)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish review event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}

	return nil
}

// Get retrieves a review by ID
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	return s.reviewRepo.FindByID(ctx, id)
}

// ListByProduct retrieves a product's reviews
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*review.Review], error) {
	return s.reviewRepo.FindByProduct(ctx, productID, filter)
}

// Vote records the caller's up or down vote on a review. Users cannot vote
// on their own review or vote twice.
func (s *ReviewService) Vote(ctx context.Context, reviewID, userID uuid.UUID, value int) (*review.Review, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID == userID {
		return nil, shared.NewDomainError("OWN_REVIEW_VOTE", "Cannot vote on your own review")
	}

	voted, err := s.reviewRepo.HasVoted(ctx, reviewID, userID)
	if err != nil {
		s.logger.Error("Failed to check review vote", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record vote")
	}
	if voted {
		return nil, shared.NewDomainError("ALREADY_VOTED", "Review was already voted on")
	}

	vote, err := review.NewVote(reviewID, userID, value)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.SaveVote(ctx, vote); err != nil {
		s.logger.Error("Failed to save review vote", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record vote")
	}

	r.RecordVote(vote.Value)
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record vote")
	}

	return r, nil
}

// publishEvents publishes and clears the review's pending domain events
func (s *ReviewService) publishEvents(ctx context.Context, r *review.Review) {
	for _, event := range r.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish review event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	r.ClearDomainEvents()
}
