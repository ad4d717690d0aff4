package address

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for user addresses
type Repository interface {
	shared.Repository[*Address]
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	// ClearDefaultShipping unsets the default shipping flag on all of the
	// user's addresses
	ClearDefaultShipping(ctx context.Context, userID uuid.UUID) error
	// ClearDefaultBilling unsets the default billing flag on all of the
	// user's addresses
	ClearDefaultBilling(ctx context.Context, userID uuid.UUID) error
}
