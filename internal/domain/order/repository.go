package order

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for orders
type Repository interface {
	shared.Repository[*Order]
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Order], error)
	CountByVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error)
}
