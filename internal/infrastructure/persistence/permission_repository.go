package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPermissionRepository implements identity.PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// Save creates or updates a permission
func (r *GormPermissionRepository) Save(ctx context.Context, permission *identity.Permission) error {
	return r.db.WithContext(ctx).Save(permission).Error
}

// FindByID finds a permission by ID
func (r *GormPermissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Permission, error) {
	var permission identity.Permission
	if err := r.db.WithContext(ctx).First(&permission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &permission, nil
}

// FindByActionAndObject finds a permission by its action and object
func (r *GormPermissionRepository) FindByActionAndObject(ctx context.Context, action identity.PermissionAction, object string) (*identity.Permission, error) {
	var permission identity.Permission
	if err := r.db.WithContext(ctx).
		Where("action = ? AND object = ?", action, strings.ToLower(object)).
		First(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &permission, nil
}

// FindAll finds all permissions matching the filter
func (r *GormPermissionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.Permission], error) {
	query := r.db.WithContext(ctx).Model(&identity.Permission{})
	query = applySearch(query, filter.Search, "object")
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var permissions []*identity.Permission
	if err := applyPagination(query, filter).Find(&permissions).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(permissions, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete deletes a permission and revokes it from all groups
func (r *GormPermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&identity.GroupPermission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&identity.Permission{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormPermissionRepository implements PermissionRepository
var _ identity.PermissionRepository = (*GormPermissionRepository)(nil)
