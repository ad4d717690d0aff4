package catalog

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the persistence contract for categories
type CategoryRepository interface {
	shared.Repository[*Category]
	FindByName(ctx context.Context, name string) (*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// SubCategoryRepository defines the persistence contract for subcategories
type SubCategoryRepository interface {
	shared.Repository[*SubCategory]
	FindBySlug(ctx context.Context, slug string) (*SubCategory, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*SubCategory, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	shared.Repository[*Product]
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Product], error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
