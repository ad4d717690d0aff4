package voucher

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Usage enumerates how often a voucher may be redeemed
type Usage string

const (
	UsageSingle          Usage = "SINGLE"
	UsageMultiple        Usage = "MULTIPLE"
	UsageOncePerCustomer Usage = "ONCE_PER_CUSTOMER"
)

// IsValid checks whether the usage is a known value
func (u Usage) IsValid() bool {
	switch u {
	case UsageSingle, UsageMultiple, UsageOncePerCustomer:
		return true
	}
	return false
}

// Voucher is a discount code valid within a time window. Discount is a
// monetary amount taken off the order total. The code is stored upper-cased
// and must be unique.
type Voucher struct {
	shared.BaseAggregateRoot
	Name      string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Code      string          `gorm:"type:varchar(40);not null;uniqueIndex"`
	Usage     Usage           `gorm:"type:varchar(20);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StartsAt  time.Time       `gorm:"not null"`
	EndsAt    time.Time       `gorm:"not null"`
	NumOrders int             `gorm:"not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// Application records a voucher redemption on an order
type Application struct {
	shared.BaseEntity
	VoucherID uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Application) TableName() string {
	return "voucher_applications"
}

// NewVoucher creates a new active voucher
func NewVoucher(name, code string, usage Usage, discount decimal.Decimal, startsAt, endsAt time.Time) (*Voucher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Voucher name cannot be empty")
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 3 {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Voucher code must be at least 3 characters")
	}
	if len(code) > 40 {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Voucher code cannot exceed 40 characters")
	}

	if !usage.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Usage must be SINGLE, MULTIPLE, or ONCE_PER_CUSTOMER")
	}
	if discount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Discount amount must be positive")
	}
	if !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "End time must be after start time")
	}

	return &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Usage:             usage,
		Discount:          discount,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		IsActive:          true,
	}, nil
}

// IsRedeemableAt reports whether the voucher window is open at the given time
func (v *Voucher) IsRedeemableAt(at time.Time) bool {
	return v.IsActive && !at.Before(v.StartsAt) && at.Before(v.EndsAt)
}

// Redeem validates a redemption and records it. usesByCustomer is the number
// of prior redemptions by the redeeming customer, ignored for guest checkouts.
func (v *Voucher) Redeem(at time.Time, usesByCustomer int) error {
	if !v.IsActive {
		return shared.NewDomainError("VOUCHER_INACTIVE", "Voucher is not active")
	}
	if at.Before(v.StartsAt) {
		return shared.NewDomainError("VOUCHER_NOT_STARTED", "Voucher is not valid yet")
	}
	if !at.Before(v.EndsAt) {
		return shared.NewDomainError("VOUCHER_EXPIRED", "Voucher has expired")
	}

	switch v.Usage {
	case UsageSingle:
		if v.NumOrders > 0 {
			return shared.NewDomainError("VOUCHER_EXHAUSTED", "Voucher has already been used")
		}
	case UsageOncePerCustomer:
		if usesByCustomer > 0 {
			return shared.NewDomainError("VOUCHER_EXHAUSTED", "Voucher was already used by this customer")
		}
	}

	v.NumOrders++
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// Deactivate withdraws the voucher
func (v *Voucher) Deactivate() {
	if !v.IsActive {
		return
	}
	v.IsActive = false
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// Activate re-enables the voucher
func (v *Voucher) Activate() {
	if v.IsActive {
		return
	}
	v.IsActive = true
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// NewApplication records that a voucher was applied to an order
func NewApplication(voucherID, orderID uuid.UUID, userID *uuid.UUID) *Application {
	return &Application{
		BaseEntity: shared.NewBaseEntity(),
		VoucherID:  voucherID,
		OrderID:    orderID,
		UserID:     userID,
	}
}
