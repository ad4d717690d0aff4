package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryInput contains the input for creating a category
type CreateCategoryInput struct {
	Name string
}

// CreateSubCategoryInput contains the input for creating a subcategory
type CreateSubCategoryInput struct {
	Name       string
	CategoryID uuid.UUID
}

// CreateProductInput contains the input for creating a product
type CreateProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	IsDiscountable bool
	SubCategoryIDs []uuid.UUID
}

// UpdateProductInput contains the input for updating a product
type UpdateProductInput struct {
	ProductID   uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
}
