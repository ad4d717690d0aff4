package catalog

import (
	"context"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductCache caches product read models. Implementations must treat a
// cache miss as (nil, nil).
type ProductCache interface {
	GetProduct(ctx context.Context, slug string) (*catalog.Product, error)
	SetProduct(ctx context.Context, product *catalog.Product) error
	DeleteProduct(ctx context.Context, slug string) error
	InvalidateAll(ctx context.Context) error
}

// ProductService handles product management
type ProductService struct {
	productRepo     catalog.ProductRepository
	subCategoryRepo catalog.SubCategoryRepository
	cache           ProductCache
	eventBus        shared.EventPublisher
	logger          *zap.Logger
}

// NewProductService creates a new product service. cache may be nil when no
// Redis is configured.
func NewProductService(
	productRepo catalog.ProductRepository,
	subCategoryRepo catalog.SubCategoryRepository,
	cache ProductCache,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		subCategoryRepo: subCategoryRepo,
		cache:           cache,
		eventBus:        eventBus,
		logger:          logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	product, err := catalog.NewProduct(input.Name, input.Description, input.Price)
	if err != nil {
		return nil, err
	}

	taken, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("PRODUCT_SLUG_TAKEN", "A product with this slug already exists")
	}

	product.SetDiscountable(input.IsDiscountable)
	for _, subCategoryID := range input.SubCategoryIDs {
		if _, err := s.subCategoryRepo.FindByID(ctx, subCategoryID); err != nil {
			return nil, shared.NewDomainError("SUBCATEGORY_NOT_FOUND", "Subcategory not found")
		}
		product.AssignSubCategory(subCategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.publishEvents(ctx, product)
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))

	return product, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// GetBySlug retrieves a product by slug, consulting the cache first
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, slug)
		if err != nil {
			s.logger.Warn("Product cache lookup failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Error(err))
		}
	}

	return product, nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(products, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListBySubCategory retrieves a page of products in a subcategory
func (s *ProductService) ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	return s.productRepo.FindBySubCategory(ctx, subCategoryID, filter)
}

// Update modifies a product's core fields and regenerates its slug
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	oldSlug := product.Slug
	if err := product.Update(input.Name, input.Description, input.Price); err != nil {
		return nil, err
	}

	if product.Slug != oldSlug {
		taken, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("PRODUCT_SLUG_TAKEN", "A product with this slug already exists")
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	s.invalidate(ctx, oldSlug)
	return product, nil
}

// SetImage records the storage key of the product image
func (s *ProductService) SetImage(ctx context.Context, id uuid.UUID, imageKey string) error {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		product.SetImageKey(imageKey)
		return nil
	})
}

// Activate makes a product visible in the storefront
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		product.Activate()
		return nil
	})
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		product.Deactivate()
		return nil
	})
}

// AssignSubCategory places a product in a subcategory
func (s *ProductService) AssignSubCategory(ctx context.Context, productID, subCategoryID uuid.UUID) error {
	if _, err := s.subCategoryRepo.FindByID(ctx, subCategoryID); err != nil {
		return shared.NewDomainError("SUBCATEGORY_NOT_FOUND", "Subcategory not found")
	}
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		product.AssignSubCategory(subCategoryID)
		return nil
	})
}

// RemoveSubCategory takes a product out of a subcategory
func (s *ProductService) RemoveSubCategory(ctx context.Context, productID, subCategoryID uuid.UUID) error {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		product.RemoveSubCategory(subCategoryID)
		return nil
	})
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, product.Slug)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, fn func(*catalog.Product) error) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(product); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	s.invalidate(ctx, product.Slug)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProduct(ctx, slug); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, product.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish product events", zap.Error(err))
	}
	product.ClearDomainEvents()
}
