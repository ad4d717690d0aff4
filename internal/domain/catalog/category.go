package catalog

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category is a top-level grouping of products
type Category struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category
func NewCategory(name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		IsActive:          true,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate makes the category visible
func (c *Category) Activate() {
	if c.IsActive {
		return
	}
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate hides the category from storefront listings
func (c *Category) Deactivate() {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SubCategory is a second-level grouping under a category, addressable by slug
type SubCategory struct {
	shared.BaseAggregateRoot
	Name       string    `gorm:"type:varchar(100);not null"`
	Slug       string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SubCategory) TableName() string {
	return "sub_categories"
}

// NewSubCategory creates a new active subcategory under the given category
func NewSubCategory(name string, categoryID uuid.UUID) (*SubCategory, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID is required")
	}

	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Name does not produce a valid slug")
	}

	return &SubCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		CategoryID:        categoryID,
		IsActive:          true,
	}, nil
}

// Rename changes the subcategory name and regenerates its slug
func (s *SubCategory) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Name does not produce a valid slug")
	}

	s.Name = name
	s.Slug = slug
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MoveTo reassigns the subcategory to another category
func (s *SubCategory) MoveTo(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID is required")
	}

	s.CategoryID = categoryID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate makes the subcategory visible
func (s *SubCategory) Activate() {
	if s.IsActive {
		return
	}
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate hides the subcategory from storefront listings
func (s *SubCategory) Deactivate() {
	if !s.IsActive {
		return
	}
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// validateCategoryName validates a category or subcategory name
func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
