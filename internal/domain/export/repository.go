package export

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for export jobs
type Repository interface {
	shared.Repository[*Export]
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Export], error)
	// NextPending returns the oldest CREATED export, or nil when there is none
	NextPending(ctx context.Context) (*Export, error)
}
