package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/export"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExportRepository implements export.Repository using GORM
type GormExportRepository struct {
	db *gorm.DB
}

// NewGormExportRepository creates a new GormExportRepository
func NewGormExportRepository(db *gorm.DB) *GormExportRepository {
	return &GormExportRepository{db: db}
}

// FindByID finds an export job by ID
func (r *GormExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Export, error) {
	var e export.Export
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll finds all export jobs matching the filter
func (r *GormExportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*export.Export, error) {
	var exports []*export.Export
	query := r.applyFilter(r.db.WithContext(ctx).Model(&export.Export{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// FindByUser finds a page of export jobs requested by the given user
func (r *GormExportRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*export.Export], error) {
	base := r.db.WithContext(ctx).Model(&export.Export{}).Where("requested_by = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var exports []*export.Export
	if err := applyPagination(base, filter).Find(&exports).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(exports, total, filter.Page, filter.PageSize)
	return &result, nil
}

// NextPending returns the oldest CREATED export, or nil when there is none.
// The row is locked so concurrent workers never pick the same job.
func (r *GormExportRepository) NextPending(ctx context.Context) (*export.Export, error) {
	var e export.Export
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", export.StatusCreated).
		Order("created_at ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Save creates or updates an export job
func (r *GormExportRepository) Save(ctx context.Context, e *export.Export) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete deletes an export job
func (r *GormExportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&export.Export{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts export jobs matching the filter
func (r *GormExportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&export.Export{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormExportRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "resource":
			query = query.Where("resource = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		}
	}
	return query
}

// Ensure GormExportRepository implements export.Repository
var _ export.Repository = (*GormExportRepository)(nil)
