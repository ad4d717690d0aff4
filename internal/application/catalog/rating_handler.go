package catalog

import (
	"context"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/review"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRatingHandler keeps the denormalized product rating in sync with
// the reviews table. It recomputes the average whenever a review is
// submitted, updated, or deleted.
type ProductRatingHandler struct {
	productRepo catalog.ProductRepository
	reviewRepo  review.Repository
	cache       ProductCache
	logger      *zap.Logger
}

// NewProductRatingHandler creates a new rating handler
func NewProductRatingHandler(
	productRepo catalog.ProductRepository,
	reviewRepo review.Repository,
	cache ProductCache,
	logger *zap.Logger,
) *ProductRatingHandler {
	return &ProductRatingHandler{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		cache:       cache,
		logger:      logger,
	}
}

// EventTypes returns the review events this handler reacts to
func (h *ProductRatingHandler) EventTypes() []string {
	return []string{review.EventTypeReviewSubmitted, review.EventTypeReviewDeleted}
}

// Handle recomputes the product's average rating
func (h *ProductRatingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var productID uuid.UUID
	switch e := event.(type) {
	case *review.ReviewSubmittedEvent:
		productID = e.ProductID
	case *review.ReviewDeletedEvent:
		productID = e.ProductID
	default:
		return nil
	}

	product, err := h.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	average, err := h.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.SetRating(average); err != nil {
		return err
	}
	if err := h.productRepo.Save(ctx, product); err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.DeleteProduct(ctx, product.Slug); err != nil {
			h.logger.Warn("Failed to invalidate product cache after rating update",
				zap.String("slug", product.Slug),
				zap.Error(err))
		}
	}

	h.logger.Debug("Product rating recomputed",
		zap.String("product_id", productID.String()),
		zap.Float64("rating", average))

	return nil
}

// Ensure ProductRatingHandler implements EventHandler
var _ shared.EventHandler = (*ProductRatingHandler)(nil)
