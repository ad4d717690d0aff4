package address

import (
	"context"

	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressService handles a user's saved addresses
type AddressService struct {
	addressRepo address.Repository
	logger      *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(addressRepo address.Repository, logger *zap.Logger) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// Create saves a new address for the user. The user's first address becomes
// the default for both shipping and billing.
func (s *AddressService) Create(ctx context.Context, input CreateAddressInput) (*address.Address, error) {
	a, err := address.NewAddress(input.UserID, input.Line1, input.Line2, input.Line3,
		input.City, input.PostalCode, input.Country)
	if err != nil {
		return nil, err
	}

	existing, err := s.addressRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to list addresses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create address")
	}
	if len(existing) == 0 {
		a.MarkDefaultShipping()
		a.MarkDefaultBilling()
	}

	if err := s.addressRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create address")
	}

	s.logger.Info("Address created",
		zap.String("address_id", a.ID.String()),
		zap.String("user_id", a.UserID.String()))

	return a, nil
}

// Get retrieves an address owned by the caller
func (s *AddressService) Get(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	return s.ownedAddress(ctx, id, userID)
}

// ListByUser retrieves all of a user's addresses
func (s *AddressService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*address.Address, error) {
	return s.addressRepo.FindByUser(ctx, userID)
}

// Update replaces the fields of an address owned by the caller
func (s *AddressService) Update(ctx context.Context, input UpdateAddressInput) (*address.Address, error) {
	a, err := s.ownedAddress(ctx, input.AddressID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := a.Update(input.Line1, input.Line2, input.Line3, input.City, input.PostalCode, input.Country); err != nil {
		return nil, err
	}

	if err := s.addressRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update address")
	}

	return a, nil
}

// Delete removes an address owned by the caller
func (s *AddressService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, id, userID); err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, id)
}

// SetDefaultShipping makes the address the user's default shipping address,
// clearing the flag on any other address first
func (s *AddressService) SetDefaultShipping(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	a, err := s.ownedAddress(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.ClearDefaultShipping(ctx, userID); err != nil {
		s.logger.Error("Failed to clear default shipping", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	a.MarkDefaultShipping()
	if err := s.addressRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	return a, nil
}

// SetDefaultBilling makes the address the user's default billing address
func (s *AddressService) SetDefaultBilling(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	a, err := s.ownedAddress(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.ClearDefaultBilling(ctx, userID); err != nil {
		s.logger.Error("Failed to clear default billing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	a.MarkDefaultBilling()
	if err := s.addressRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set default address")
	}

	return a, nil
}

// ownedAddress loads an address and verifies ownership
func (s *AddressService) ownedAddress(ctx context.Context, id, userID uuid.UUID) (*address.Address, error) {
	a, err := s.addressRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return a, nil
}
