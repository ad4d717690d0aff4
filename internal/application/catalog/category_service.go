package catalog

import (
	"context"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles category and subcategory management
type CategoryService struct {
	categoryRepo    catalog.CategoryRepository
	subCategoryRepo catalog.SubCategoryRepository
	logger          *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	subCategoryRepo catalog.SubCategoryRepository,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		logger:          logger,
	}
}

// CreateCategory creates a new top-level category
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*catalog.Category, error) {
	taken, err := s.categoryRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("CATEGORY_NAME_TAKEN", "A category with this name already exists")
	}

	category, err := catalog.NewCategory(input.Name)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name))

	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// ListCategories retrieves categories matching the filter
func (s *CategoryService) ListCategories(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Category], error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(categories, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RenameCategory changes a category's name
func (s *CategoryService) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != category.Name {
		taken, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("CATEGORY_NAME_TAKEN", "A category with this name already exists")
		}
	}

	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}

	return category, nil
}

// DeleteCategory removes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// CreateSubCategory creates a subcategory under an existing category
func (s *CategoryService) CreateSubCategory(ctx context.Context, input CreateSubCategoryInput) (*catalog.SubCategory, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Parent category not found")
	}

	subCategory, err := catalog.NewSubCategory(input.Name, input.CategoryID)
	if err != nil {
		return nil, err
	}

	taken, err := s.subCategoryRepo.ExistsBySlug(ctx, subCategory.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SUBCATEGORY_SLUG_TAKEN", "A subcategory with this slug already exists")
	}

	if err := s.subCategoryRepo.Save(ctx, subCategory); err != nil {
		s.logger.Error("Failed to save subcategory", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create subcategory")
	}

	return subCategory, nil
}

// GetSubCategory retrieves a subcategory by ID
func (s *CategoryService) GetSubCategory(ctx context.Context, id uuid.UUID) (*catalog.SubCategory, error) {
	return s.subCategoryRepo.FindByID(ctx, id)
}

// GetSubCategoryBySlug retrieves a subcategory by slug
func (s *CategoryService) GetSubCategoryBySlug(ctx context.Context, slug string) (*catalog.SubCategory, error) {
	return s.subCategoryRepo.FindBySlug(ctx, slug)
}

// ListSubCategories retrieves the subcategories of a category
func (s *CategoryService) ListSubCategories(ctx context.Context, categoryID uuid.UUID) ([]*catalog.SubCategory, error) {
	return s.subCategoryRepo.FindByCategory(ctx, categoryID)
}

// RenameSubCategory changes a subcategory's name and regenerates its slug
func (s *CategoryService) RenameSubCategory(ctx context.Context, id uuid.UUID, name string) (*catalog.SubCategory, error) {
	subCategory, err := s.subCategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := subCategory.Rename(name); err != nil {
		return nil, err
	}
	if err := s.subCategoryRepo.Save(ctx, subCategory); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update subcategory")
	}

	return subCategory, nil
}

// MoveSubCategory reparents a subcategory under another category
func (s *CategoryService) MoveSubCategory(ctx context.Context, id, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Target category not found")
	}

	subCategory, err := s.subCategoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := subCategory.MoveTo(categoryID); err != nil {
		return err
	}

	return s.subCategoryRepo.Save(ctx, subCategory)
}

// DeleteSubCategory removes a subcategory
func (s *CategoryService) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	return s.subCategoryRepo.Delete(ctx, id)
}
