package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupRepository implements identity.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a group by ID, including granted permissions
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	var group identity.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadPermissionIDs(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByName finds a group by name
func (r *GormGroupRepository) FindByName(ctx context.Context, name string) (*identity.Group, error) {
	var group identity.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadPermissionIDs(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// FindAll finds all groups matching the filter
func (r *GormGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.Group, error) {
	var groups []*identity.Group
	query := applySearch(r.db.WithContext(ctx).Model(&identity.Group{}), filter.Search, "name", "description")
	query = applyPagination(query, filter)

	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates a group and synchronizes its permissions
func (r *GormGroupRepository) Save(ctx context.Context, group *identity.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(group).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", group.ID).Delete(&identity.GroupPermission{}).Error; err != nil {
			return err
		}
		for _, permID := range group.PermissionIDs {
			if err := tx.Create(&identity.GroupPermission{GroupID: group.ID, PermissionID: permID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a group and its memberships
func (r *GormGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&identity.GroupPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&identity.UserGroup{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&identity.Group{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts groups matching the filter
func (r *GormGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&identity.Group{}), filter.Search, "name", "description")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a group with the given name exists
func (r *GormGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Group{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// loadPermissionIDs populates the group's PermissionIDs from the join table
func (r *GormGroupRepository) loadPermissionIDs(ctx context.Context, group *identity.Group) error {
	var grants []identity.GroupPermission
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", group.ID).
		Find(&grants).Error; err != nil {
		return err
	}

	group.PermissionIDs = make([]uuid.UUID, 0, len(grants))
	for _, g := range grants {
		group.PermissionIDs = append(group.PermissionIDs, g.PermissionID)
	}
	return nil
}

// Ensure GormGroupRepository implements GroupRepository
var _ identity.GroupRepository = (*GormGroupRepository)(nil)
