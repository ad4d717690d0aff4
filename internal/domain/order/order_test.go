package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	userID := uuid.New()
	o, err := NewOrder(&userID, "")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	o, err := NewOrder(&userID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusInit, o.Status)
	assert.NotEmpty(t, o.Number)
	assert.True(t, o.TotalInclTax.IsZero())

	guest, err := NewOrder(nil, "Guest@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", guest.GuestEmail)

	_, err = NewOrder(nil, "")
	assert.Error(t, err)
}

func TestNewOrder_UniqueNumbers(t *testing.T) {
	seen := make(map[string]bool)
	userID := uuid.New()
	for i := 0; i < 100; i++ {
		o, err := NewOrder(&userID, "")
		require.NoError(t, err)
		assert.False(t, seen[o.Number], "duplicate order number %s", o.Number)
		seen[o.Number] = true
	}
}

func TestOrder_AddLine(t *testing.T) {
	o := newTestOrder(t)
	productID := uuid.New()
	taxRate := decimal.NewFromFloat(0.20)

	err := o.AddLine(productID, "Trail Helmet", 2, decimal.NewFromInt(120), taxRate)
	require.NoError(t, err)

	require.Len(t, o.Lines, 1)
	line := o.Lines[0]
	assert.Equal(t, "120", line.UnitPriceInclTax.String())
	assert.Equal(t, "100", line.UnitPriceExclTax.String())
	assert.Equal(t, "240", line.LinePriceInclTax.String())
	assert.Equal(t, "200", line.LinePriceExclTax.String())
	assert.Equal(t, "240", o.TotalInclTax.String())
	assert.Equal(t, "200", o.TotalExclTax.String())

	err = o.AddLine(productID, "Trail Helmet", 1, decimal.NewFromInt(120), taxRate)
	assert.Error(t, err, "duplicate product lines are rejected")

	err = o.AddLine(uuid.New(), "Gloves", 0, decimal.NewFromInt(10), taxRate)
	assert.Error(t, err)
}

func TestOrder_RemoveLine(t *testing.T) {
	o := newTestOrder(t)
	productID := uuid.New()

	require.NoError(t, o.AddLine(productID, "Helmet", 1, decimal.NewFromInt(120), decimal.Zero))
	require.NoError(t, o.RemoveLine(productID))
	assert.Empty(t, o.Lines)
	assert.True(t, o.TotalInclTax.IsZero())

	assert.Error(t, o.RemoveLine(productID))
}

func TestOrder_ApplyVoucher(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Helmet", 2, decimal.NewFromInt(120), decimal.NewFromFloat(0.20)))

	voucherID := uuid.New()
	require.NoError(t, o.ApplyVoucher(voucherID, decimal.NewFromInt(24)))

	line := o.Lines[0]
	assert.Equal(t, "108", line.UnitPriceInclTax.String())
	assert.Equal(t, "120", line.UnitPriceInclTaxBeforeDiscount.String())
	assert.Equal(t, "216", o.TotalInclTax.String())
	require.NotNil(t, o.VoucherID)
	assert.Equal(t, voucherID, *o.VoucherID)

	err := o.ApplyVoucher(uuid.New(), decimal.NewFromInt(5))
	assert.Error(t, err, "only one voucher per order")
}

func TestOrder_ApplyVoucher_ExceedsTotal(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Gloves", 1, decimal.NewFromInt(30), decimal.Zero))

	require.NoError(t, o.ApplyVoucher(uuid.New(), decimal.NewFromInt(100)))
	assert.True(t, o.TotalInclTax.IsZero(), "discount larger than the total brings it to zero")
}

func TestOrder_ApplyVoucher_NegativeDiscount(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Gloves", 1, decimal.NewFromInt(30), decimal.Zero))

	err := o.ApplyVoucher(uuid.New(), decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestOrder_ApplyVoucher_EmptyOrder(t *testing.T) {
	o := newTestOrder(t)
	err := o.ApplyVoucher(uuid.New(), decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestOrder_StatusTransitions(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Helmet", 1, decimal.NewFromInt(120), decimal.Zero))

	happyPath := []Status{StatusPending, StatusConfirmed, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered}
	for _, next := range happyPath {
		require.NoError(t, o.TransitionTo(next), "transition to %s", next)
	}
	assert.Equal(t, StatusDelivered, o.Status)

	err := o.TransitionTo(StatusPending)
	assert.Error(t, err, "cannot go back to PENDING from DELIVERED")

	require.NoError(t, o.TransitionTo(StatusReturned))
	require.NoError(t, o.TransitionTo(StatusRefunded))
	assert.True(t, o.Status.IsTerminal())
}

func TestOrder_PlaceEmptyOrder(t *testing.T) {
	o := newTestOrder(t)
	err := o.TransitionTo(StatusPending)
	assert.Error(t, err, "placing an empty order is rejected")
}

func TestOrder_CancelAfterShipment(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Helmet", 1, decimal.NewFromInt(120), decimal.Zero))
	for _, next := range []Status{StatusPending, StatusConfirmed, StatusPaid, StatusProcessing, StatusShipped} {
		require.NoError(t, o.TransitionTo(next))
	}

	err := o.Cancel()
	assert.Error(t, err, "shipped orders cannot be cancelled")
}

func TestOrder_EditAfterPlacement(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Helmet", 1, decimal.NewFromInt(120), decimal.Zero))
	require.NoError(t, o.TransitionTo(StatusPending))
	require.NoError(t, o.TransitionTo(StatusConfirmed))

	err := o.AddLine(uuid.New(), "Gloves", 1, decimal.NewFromInt(30), decimal.Zero)
	assert.Error(t, err, "confirmed orders are frozen")
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, s)

	_, err = ParseStatus("UNKNOWN")
	assert.Error(t, err)
}
