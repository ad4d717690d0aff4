package voucher

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence contract for vouchers
type Repository interface {
	shared.Repository[*Voucher]
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	SaveApplication(ctx context.Context, application *Application) error
	CountApplicationsByUser(ctx context.Context, voucherID, userID uuid.UUID) (int64, error)
}
