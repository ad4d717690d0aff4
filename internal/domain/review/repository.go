package review

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews and votes
type Repository interface {
	shared.Repository[*Review]
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Review], error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)
	// AverageRating returns the mean rating over all reviews of the product,
	// zero when it has none
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)
	SaveVote(ctx context.Context, vote *Vote) error
	HasVoted(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
}
