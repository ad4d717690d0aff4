package voucher

import (
	"context"
	"strings"

	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VoucherService handles voucher administration. Redemption happens in the
// order service; this service owns creation and lifecycle.
type VoucherService struct {
	voucherRepo voucher.Repository
	orderRepo   order.Repository
	logger      *zap.Logger
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo voucher.Repository, orderRepo order.Repository, logger *zap.Logger) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// Create creates a new voucher with a unique name and code
func (s *VoucherService) Create(ctx context.Context, input CreateVoucherInput) (*voucher.Voucher, error) {
	v, err := voucher.NewVoucher(input.Name, input.Code, voucher.Usage(input.Usage),
		input.Discount, input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, err
	}

	if taken, err := s.voucherRepo.ExistsByCode(ctx, v.Code); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("VOUCHER_CODE_TAKEN", "A voucher with this code already exists")
	}
	if taken, err := s.voucherRepo.ExistsByName(ctx, v.Name); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("VOUCHER_NAME_TAKEN", "A voucher with this name already exists")
	}

	if err := s.voucherRepo.Save(ctx, v); err != nil {
		s.logger.Error("Failed to save voucher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create voucher")
	}

	s.logger.Info("Voucher created",
		zap.String("voucher_id", v.ID.String()),
		zap.String("code", v.Code))

	return v, nil
}

// Get retrieves a voucher by ID
func (s *VoucherService) Get(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	return s.voucherRepo.FindByID(ctx, id)
}

// GetByCode retrieves a voucher by its code
func (s *VoucherService) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	return s.voucherRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// List retrieves vouchers matching the filter
func (s *VoucherService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*voucher.Voucher], error) {
	vouchers, err := s.voucherRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.voucherRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(vouchers, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Activate re-enables a voucher
func (s *VoucherService) Activate(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	return s.updateVoucher(ctx, id, func(v *voucher.Voucher) error {
		v.Activate()
		return nil
	})
}

// Deactivate withdraws a voucher
func (s *VoucherService) Deactivate(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	return s.updateVoucher(ctx, id, func(v *voucher.Voucher) error {
		v.Deactivate()
		return nil
	})
}

// Delete removes a voucher that was never redeemed
func (s *VoucherService) Delete(ctx context.Context, id uuid.UUID) error {
	used, err := s.orderRepo.CountByVoucher(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count voucher orders", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete voucher")
	}
	if used > 0 {
		return shared.NewDomainError("VOUCHER_IN_USE", "Voucher has been redeemed and cannot be deleted")
	}
	return s.voucherRepo.Delete(ctx, id)
}

// updateVoucher loads, mutates, and saves a voucher
func (s *VoucherService) updateVoucher(ctx context.Context, id uuid.UUID, mutate func(*voucher.Voucher) error) (*voucher.Voucher, error) {
	v, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(v); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.Save(ctx, v); err != nil {
		s.logger.Error("Failed to save voucher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update voucher")
	}

	return v, nil
}
