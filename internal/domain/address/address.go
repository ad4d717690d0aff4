package address

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Address is a user's saved postal address. A user can mark one address as
// the default for shipping and one for billing; usage counters track how
// often an address was used at checkout.
type Address struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Line1             string    `gorm:"type:varchar(200);not null"`
	Line2             string    `gorm:"type:varchar(200)"`
	Line3             string    `gorm:"type:varchar(200)"`
	City              string    `gorm:"type:varchar(100);not null"`
	PostalCode        string    `gorm:"type:varchar(20);not null"`
	Country           string    `gorm:"type:varchar(2);not null"`
	IsDefaultShipping bool      `gorm:"not null;default:false"`
	IsDefaultBilling  bool      `gorm:"not null;default:false"`
	NumTimesShipped   int       `gorm:"not null;default:0"`
	NumTimesBilled    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "user_addresses"
}

// NewAddress creates a new address for a user. Country is an ISO 3166-1
// alpha-2 code and is required.
func NewAddress(userID uuid.UUID, line1, line2, line3, city, postalCode, country string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "User ID is required")
	}

	line1 = strings.TrimSpace(line1)
	if line1 == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}

	postalCode = strings.TrimSpace(postalCode)
	if postalCode == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot be empty")
	}

	country = strings.ToUpper(strings.TrimSpace(country))
	if len(country) != 2 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Country must be a two-letter ISO code")
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Line1:             line1,
		Line2:             strings.TrimSpace(line2),
		Line3:             strings.TrimSpace(line3),
		City:              city,
		PostalCode:        postalCode,
		Country:           country,
	}, nil
}

// Update replaces the address fields
func (a *Address) Update(line1, line2, line3, city, postalCode, country string) error {
	updated, err := NewAddress(a.UserID, line1, line2, line3, city, postalCode, country)
	if err != nil {
		return err
	}

	a.Line1 = updated.Line1
	a.Line2 = updated.Line2
	a.Line3 = updated.Line3
	a.City = updated.City
	a.PostalCode = updated.PostalCode
	a.Country = updated.Country
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// MarkDefaultShipping flags the address as the default shipping address.
// The repository clears the flag on the user's other addresses.
func (a *Address) MarkDefaultShipping() {
	a.IsDefaultShipping = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// MarkDefaultBilling flags the address as the default billing address
func (a *Address) MarkDefaultBilling() {
	a.IsDefaultBilling = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// RecordShipment increments the shipping usage counter
func (a *Address) RecordShipment() {
	a.NumTimesShipped++
	a.UpdatedAt = time.Now()
}

// RecordBilling increments the billing usage counter
func (a *Address) RecordBilling() {
	a.NumTimesBilled++
	a.UpdatedAt = time.Now()
}

// Summary returns a single-line rendering for logs and exports
func (a *Address) Summary() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	if a.Line3 != "" {
		parts = append(parts, a.Line3)
	}
	parts = append(parts, a.City, a.PostalCode, a.Country)
	return strings.Join(parts, ", ")
}
