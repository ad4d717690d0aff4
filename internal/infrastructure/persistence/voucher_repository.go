package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVoucherRepository implements voucher.Repository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var v voucher.Voucher
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByCode finds a voucher by its code
func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	var v voucher.Voucher
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll finds all vouchers matching the filter
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*voucher.Voucher, error) {
	var vouchers []*voucher.Voucher
	query := r.applyFilter(r.db.WithContext(ctx).Model(&voucher.Voucher{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Save creates or updates a voucher
func (r *GormVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// Delete deletes a voucher
func (r *GormVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&voucher.Voucher{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts vouchers matching the filter
func (r *GormVoucherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&voucher.Voucher{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a voucher with the given code exists
func (r *GormVoucherRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voucher.Voucher{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByName checks if a voucher with the given name exists
func (r *GormVoucherRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voucher.Voucher{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveApplication records a voucher redemption
func (r *GormVoucherRepository) SaveApplication(ctx context.Context, application *voucher.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// CountApplicationsByUser counts how often a user has redeemed a voucher
func (r *GormVoucherRepository) CountApplicationsByUser(ctx context.Context, voucherID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voucher.Application{}).
		Where("voucher_id = ? AND user_id = ?", voucherID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "code")
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "usage":
			query = query.Where("usage = ?", value)
		}
	}
	return query
}

// Ensure GormVoucherRepository implements voucher.Repository
var _ voucher.Repository = (*GormVoucherRepository)(nil)
