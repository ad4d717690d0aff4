package order

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a customer purchase. Orders are placed by
// a registered user or by a guest identified by email. Totals are kept both
// including and excluding tax and are recomputed whenever lines change.
type Order struct {
	shared.BaseAggregateRoot
	Number       string     `gorm:"type:varchar(40);not null;uniqueIndex"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	GuestEmail   string     `gorm:"type:varchar(100)"`
	Status       Status     `gorm:"type:varchar(20);not null;default:'INIT'"`
	AddressID    *uuid.UUID `gorm:"type:uuid"`
	VoucherID    *uuid.UUID `gorm:"type:uuid"`
	TotalInclTax decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalExclTax decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Lines        []Line          `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Line is a single product position within an order. Prices before discount
// are retained so voucher effects stay auditable.
type Line struct {
	shared.BaseEntity
	OrderID                        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID                      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName                    string          `gorm:"type:varchar(200);not null"`
	Quantity                       int             `gorm:"not null"`
	UnitPriceInclTax               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPriceExclTax               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LinePriceInclTax               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LinePriceExclTax               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPriceInclTaxBeforeDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LinePriceInclTaxBeforeDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// NewOrder creates a new order in INIT status. Either userID or guestEmail
// must be provided.
func NewOrder(userID *uuid.UUID, guestEmail string) (*Order, error) {
	guestEmail = strings.ToLower(strings.TrimSpace(guestEmail))
	if userID == nil && guestEmail == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order requires a user or a guest email")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            generateOrderNumber(),
		UserID:            userID,
		GuestEmail:        guestEmail,
		Status:            StatusInit,
		TotalInclTax:      decimal.Zero,
		TotalExclTax:      decimal.Zero,
		Lines:             make([]Line, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a product position to the order. Unit prices exclusive of tax
// are derived from the tax-inclusive price and the given tax rate.
func (o *Order) AddLine(productID uuid.UUID, productName string, quantity int, unitPriceInclTax, taxRate decimal.Decimal) error {
	if !o.isEditable() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is open")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER_LINE", "Product ID is required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_ORDER_LINE", "Quantity must be positive")
	}
	if unitPriceInclTax.IsNegative() {
		return shared.NewDomainError("INVALID_ORDER_LINE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_ORDER_LINE", "Tax rate must be in [0, 1)")
	}

	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return shared.NewDomainError("DUPLICATE_ORDER_LINE", "Product is already on the order")
		}
	}

	qty := decimal.NewFromInt(int64(quantity))
	unitIncl := unitPriceInclTax.Round(2)
	unitExcl := unitIncl.Div(decimal.NewFromInt(1).Add(taxRate)).Round(2)

	line := Line{
		BaseEntity:                     shared.NewBaseEntity(),
		OrderID:                        o.ID,
		ProductID:                      productID,
		ProductName:                    strings.TrimSpace(productName),
		Quantity:                       quantity,
		UnitPriceInclTax:               unitIncl,
		UnitPriceExclTax:               unitExcl,
		LinePriceInclTax:               unitIncl.Mul(qty).Round(2),
		LinePriceExclTax:               unitExcl.Mul(qty).Round(2),
		UnitPriceInclTaxBeforeDiscount: unitIncl,
		LinePriceInclTaxBeforeDiscount: unitIncl.Mul(qty).Round(2),
	}

	o.Lines = append(o.Lines, line)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// RemoveLine removes a product position from the order
func (o *Order) RemoveLine(productID uuid.UUID) error {
	if !o.isEditable() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is open")
	}

	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Product is not on the order")
}

// ApplyVoucher spreads a monetary discount across all lines in proportion to
// their share of the order total and records the voucher. Lines keep their
// before-discount prices. A discount exceeding the total brings it to zero.
func (o *Order) ApplyVoucher(voucherID uuid.UUID, discount decimal.Decimal) error {
	if !o.isEditable() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Vouchers can only apply while the order is open")
	}
	if o.VoucherID != nil {
		return shared.NewDomainError("VOUCHER_ALREADY_APPLIED", "Order already has a voucher")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot apply a voucher to an empty order")
	}

	beforeTotal := decimal.Zero
	for i := range o.Lines {
		beforeTotal = beforeTotal.Add(o.Lines[i].LinePriceInclTaxBeforeDiscount)
	}

	factor := decimal.Zero
	if discount.LessThan(beforeTotal) {
		factor = beforeTotal.Sub(discount).Div(beforeTotal)
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		qty := decimal.NewFromInt(int64(line.Quantity))
		taxFactor := decimal.NewFromInt(1)
		if line.UnitPriceExclTax.IsPositive() {
			taxFactor = line.UnitPriceInclTax.Div(line.UnitPriceExclTax)
		}
		line.UnitPriceInclTax = line.UnitPriceInclTaxBeforeDiscount.Mul(factor).Round(2)
		line.UnitPriceExclTax = line.UnitPriceInclTax.Div(taxFactor).Round(2)
		line.LinePriceInclTax = line.UnitPriceInclTax.Mul(qty).Round(2)
		line.LinePriceExclTax = line.UnitPriceExclTax.Mul(qty).Round(2)
	}

	o.VoucherID = &voucherID
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetAddress attaches a shipping address to the order
func (o *Order) SetAddress(addressID uuid.UUID) error {
	if !o.isEditable() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Address can only change while the order is open")
	}
	o.AddressID = &addressID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// TransitionTo moves the order to the next status when the state machine
// allows it
func (o *Order) TransitionTo(next Status) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Unknown order status: "+string(next))
	}
	if !o.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition order from "+string(o.Status)+" to "+string(next))
	}
	if next == StatusPending && len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot place an empty order")
	}

	previous := o.Status
	o.Status = next
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))

	return nil
}

// Cancel cancels the order if its current status allows it
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// isEditable reports whether lines and vouchers may still change
func (o *Order) isEditable() bool {
	return o.Status == StatusInit || o.Status == StatusPending
}

// recalculateTotals sums line prices into the order totals
func (o *Order) recalculateTotals() {
	incl := decimal.Zero
	excl := decimal.Zero
	for i := range o.Lines {
		incl = incl.Add(o.Lines[i].LinePriceInclTax)
		excl = excl.Add(o.Lines[i].LinePriceExclTax)
	}
	o.TotalInclTax = incl
	o.TotalExclTax = excl
}

// generateOrderNumber creates a unique human-readable order number
func generateOrderNumber() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "ORD-" + time.Now().UTC().Format("20060102150405.000000")
	}
	return "ORD-" + time.Now().UTC().Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(buf))
}
