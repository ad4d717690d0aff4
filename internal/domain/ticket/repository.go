package ticket

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for tickets
type Repository interface {
	shared.Repository[*Ticket]
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Ticket], error)
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) (*shared.Paginated[*Ticket], error)
}
