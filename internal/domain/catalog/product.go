package catalog

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rating bounds for products and reviews
const (
	MinRating = 0
	MaxRating = 5
)

// Product is a sellable item, addressable by slug
// It can belong to any number of subcategories
type Product struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Slug           string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Rating         float64         `gorm:"not null;default:0"`
	ImageKey       string          `gorm:"type:varchar(255)"`
	IsActive       bool            `gorm:"not null;default:true"`
	IsDiscountable bool            `gorm:"not null;default:true"`
	SubCategoryIDs []uuid.UUID     `gorm:"-"` // Stored in the join table, loaded by the repository
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductSubCategory represents the many-to-many relationship between
// products and subcategories
type ProductSubCategory struct {
	ProductID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubCategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (ProductSubCategory) TableName() string {
	return "product_sub_categories"
}

// NewProduct creates a new active, discountable product
func NewProduct(name, description string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Name does not produce a valid slug")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Description:       strings.TrimSpace(description),
		Price:             price.Round(2),
		IsActive:          true,
		IsDiscountable:    true,
		SubCategoryIDs:    make([]uuid.UUID, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update changes the product's name, description, and price
func (p *Product) Update(name, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Name does not produce a valid slug")
	}

	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(description)
	p.Price = price.Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageKey records the storage key of the product image
func (p *Product) SetImageKey(key string) {
	p.ImageKey = strings.TrimSpace(key)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetRating updates the aggregate review rating
func (p *Product) SetRating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	p.Rating = rating
	p.UpdatedAt = time.Now()
	return nil
}

// SetDiscountable controls whether vouchers can apply to the product
func (p *Product) SetDiscountable(discountable bool) {
	if p.IsDiscountable == discountable {
		return
	}
	p.IsDiscountable = discountable
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product sellable
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate withdraws the product from sale
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AssignSubCategory links the product to a subcategory
func (p *Product) AssignSubCategory(subCategoryID uuid.UUID) {
	for _, id := range p.SubCategoryIDs {
		if id == subCategoryID {
			return
		}
	}
	p.SubCategoryIDs = append(p.SubCategoryIDs, subCategoryID)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// RemoveSubCategory unlinks the product from a subcategory
func (p *Product) RemoveSubCategory(subCategoryID uuid.UUID) {
	for i, id := range p.SubCategoryIDs {
		if id == subCategoryID {
			p.SubCategoryIDs = append(p.SubCategoryIDs[:i], p.SubCategoryIDs[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return
		}
	}
}

// validateProductName validates a product name
func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validatePrice validates a product price
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if price.GreaterThan(decimal.NewFromInt(99999999)) {
		return shared.NewDomainError("INVALID_PRICE", "Price exceeds the allowed maximum")
	}
	return nil
}
