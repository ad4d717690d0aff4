package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID, including subcategory links
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSubCategoryIDs(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSubCategoryIDs(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Product, error) {
	var products []*catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySubCategory finds products linked to a subcategory
func (r *GormProductRepository) FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	base := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Joins("JOIN product_sub_categories ON product_sub_categories.product_id = products.id").
		Where("product_sub_categories.sub_category_id = ?", subCategoryID)
	base = applySearch(base, filter.Search, "products.name", "products.description")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []*catalog.Product
	if err := applyPagination(base, filter).Find(&products).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(products, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a product and synchronizes subcategory links
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ProductSubCategory{}).Error; err != nil {
			return err
		}
		for _, subID := range product.SubCategoryIDs {
			if err := tx.Create(&catalog.ProductSubCategory{ProductID: product.ID, SubCategoryID: subID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a product and its subcategory links
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.ProductSubCategory{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a product with the given slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// loadSubCategoryIDs populates the product's SubCategoryIDs from the join table
func (r *GormProductRepository) loadSubCategoryIDs(ctx context.Context, product *catalog.Product) error {
	var links []catalog.ProductSubCategory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Find(&links).Error; err != nil {
		return err
	}

	product.SubCategoryIDs = make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		product.SubCategoryIDs = append(product.SubCategoryIDs, link.SubCategoryID)
	}
	return nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "description")
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_discountable":
			query = query.Where("is_discountable = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		}
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
