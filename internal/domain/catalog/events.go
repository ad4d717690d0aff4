package catalog

import (
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the catalog domain
const (
	EventTypeProductCreated = "catalog.product.created"
	EventTypeProductUpdated = "catalog.product.updated"
)

// ProductCreatedEvent is raised when a new product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", product.ID),
		Name:            product.Name,
		Slug:            product.Slug,
		Price:           product.Price,
	}
}
