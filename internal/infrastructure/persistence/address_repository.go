package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAddressRepository implements address.Repository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	var a address.Address
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll finds all addresses matching the filter
func (r *GormAddressRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*address.Address, error) {
	var addresses []*address.Address
	query := r.db.WithContext(ctx).Model(&address.Address{})
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	query = applyPagination(query, filter)

	if err := query.Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// FindByUser finds all addresses saved by a user
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*address.Address, error) {
	var addresses []*address.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, a *address.Address) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete deletes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&address.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts addresses matching the filter
func (r *GormAddressRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&address.Address{})
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearDefaultShipping unsets the default shipping flag on all of the user's
// addresses
func (r *GormAddressRepository) ClearDefaultShipping(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&address.Address{}).
		Where("user_id = ?", userID).
		Update("is_default_shipping", false).Error
}

// ClearDefaultBilling unsets the default billing flag on all of the user's
// addresses
func (r *GormAddressRepository) ClearDefaultBilling(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&address.Address{}).
		Where("user_id = ?", userID).
		Update("is_default_billing", false).Error
}

// Ensure GormAddressRepository implements address.Repository
var _ address.Repository = (*GormAddressRepository)(nil)
