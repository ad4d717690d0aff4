package voucher

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVoucherInput contains the data to create a voucher
type CreateVoucherInput struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Code     string          `json:"code" validate:"required,min=3,max=40"`
	Usage    string          `json:"usage" validate:"required,oneof=SINGLE MULTIPLE ONCE_PER_CUSTOMER"`
	Discount decimal.Decimal `json:"discount" validate:"required"`
	StartsAt time.Time       `json:"starts_at" validate:"required"`
	EndsAt   time.Time       `json:"ends_at" validate:"required"`
}
