package address

import "github.com/google/uuid"

// CreateAddressInput contains the data to save a new address
type CreateAddressInput struct {
	UserID     uuid.UUID `json:"-"`
	Line1      string    `json:"line1" validate:"required,min=1,max=200"`
	Line2      string    `json:"line2" validate:"max=200"`
	Line3      string    `json:"line3" validate:"max=200"`
	City       string    `json:"city" validate:"required,min=1,max=100"`
	PostalCode string    `json:"postal_code" validate:"required,min=1,max=20"`
	Country    string    `json:"country" validate:"required,len=2"`
}

// UpdateAddressInput replaces the fields of an existing address
type UpdateAddressInput struct {
	AddressID  uuid.UUID `json:"-"`
	UserID     uuid.UUID `json:"-"`
	Line1      string    `json:"line1" validate:"required,min=1,max=200"`
	Line2      string    `json:"line2" validate:"max=200"`
	Line3      string    `json:"line3" validate:"max=200"`
	City       string    `json:"city" validate:"required,min=1,max=100"`
	PostalCode string    `json:"postal_code" validate:"required,min=1,max=20"`
	Country    string    `json:"country" validate:"required,len=2"`
}
