package order

import "github.com/google/uuid"

// OrderLineInput is a single product position requested at checkout
type OrderLineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput contains the data to open a new order. Either UserID or
// GuestEmail must be set.
type CreateOrderInput struct {
	UserID     *uuid.UUID       `json:"user_id"`
	GuestEmail string           `json:"guest_email" validate:"omitempty,email"`
	AddressID  *uuid.UUID       `json:"address_id"`
	Lines      []OrderLineInput `json:"lines" validate:"omitempty,dive"`
}

// AddLineInput adds a product position to an open order
type AddLineInput struct {
	OrderID   uuid.UUID `json:"-"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// ApplyVoucherInput redeems a voucher code against an open order
type ApplyVoucherInput struct {
	OrderID uuid.UUID `json:"-"`
	Code    string    `json:"code" validate:"required,min=3,max=40"`
}

// ChangeStatusInput moves an order to the given status
type ChangeStatusInput struct {
	OrderID uuid.UUID `json:"-"`
	Status  string    `json:"status" validate:"required"`
}
