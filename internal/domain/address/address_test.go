package address

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	userID := uuid.New()

	a, err := NewAddress(userID, "1 Main St", "Apt 2", "", "Springfield", "12345", "us")
	require.NoError(t, err)
	assert.Equal(t, "US", a.Country, "country code is upper-cased")
	assert.False(t, a.IsDefaultShipping)
	assert.Zero(t, a.NumTimesShipped)

	_, err = NewAddress(uuid.Nil, "1 Main St", "", "", "Springfield", "12345", "US")
	assert.Error(t, err)

	_, err = NewAddress(userID, "", "", "", "Springfield", "12345", "US")
	assert.Error(t, err)

	_, err = NewAddress(userID, "1 Main St", "", "", "Springfield", "12345", "USA")
	assert.Error(t, err, "country must be two letters")
}

func TestAddress_Update(t *testing.T) {
	a, err := NewAddress(uuid.New(), "1 Main St", "", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	require.NoError(t, a.Update("2 Oak Ave", "", "", "Shelbyville", "54321", "US"))
	assert.Equal(t, "2 Oak Ave", a.Line1)
	assert.Equal(t, 2, a.GetVersion())

	err = a.Update("", "", "", "Shelbyville", "54321", "US")
	assert.Error(t, err)
	assert.Equal(t, "2 Oak Ave", a.Line1, "failed update leaves fields untouched")
}

func TestAddress_UsageCounters(t *testing.T) {
	a, err := NewAddress(uuid.New(), "1 Main St", "", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	a.RecordShipment()
	a.RecordShipment()
	a.RecordBilling()
	assert.Equal(t, 2, a.NumTimesShipped)
	assert.Equal(t, 1, a.NumTimesBilled)
}

func TestAddress_Summary(t *testing.T) {
	a, err := NewAddress(uuid.New(), "1 Main St", "Apt 2", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	assert.Equal(t, "1 Main St, Apt 2, Springfield, 12345, US", a.Summary())
}
