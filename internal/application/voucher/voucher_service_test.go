package voucher

import (
	"context"
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*voucher.Voucher, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVoucherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) SaveApplication(ctx context.Context, application *voucher.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockVoucherRepository) CountApplicationsByUser(ctx context.Context, voucherID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, voucherID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*order.Order]), args.Error(1)
}

func (m *MockOrderRepository) CountByVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error) {
	args := m.Called(ctx, voucherID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestVoucherService(vouchers *MockVoucherRepository, orders *MockOrderRepository) *VoucherService {
	return NewVoucherService(vouchers, orders, zap.NewNop())
}

func validInput() CreateVoucherInput {
	return CreateVoucherInput{
		Name:     "Launch Week",
		Code:     "launch20",
		Usage:    "MULTIPLE",
		Discount: decimal.RequireFromString("20.00"),
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(24 * time.Hour),
	}
}

func TestVoucherService_Create(t *testing.T) {
	ctx := context.Background()
	vouchers := new(MockVoucherRepository)
	service := newTestVoucherService(vouchers, new(MockOrderRepository))

	vouchers.On("ExistsByCode", ctx, "LAUNCH20").Return(false, nil)
	vouchers.On("ExistsByName", ctx, "Launch Week").Return(false, nil)
	vouchers.On("Save", ctx, mock.AnythingOfType("*voucher.Voucher")).Return(nil)

	v, err := service.Create(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, "LAUNCH20", v.Code)
	assert.True(t, v.IsActive)
	vouchers.AssertExpectations(t)
}

func TestVoucherService_Create_CodeTaken(t *testing.T) {
	ctx := context.Background()
	vouchers := new(MockVoucherRepository)
	service := newTestVoucherService(vouchers, new(MockOrderRepository))

	vouchers.On("ExistsByCode", ctx, "LAUNCH20").Return(true, nil)

	_, err := service.Create(ctx, validInput())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VOUCHER_CODE_TAKEN", domainErr.Code)
	vouchers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestVoucherService_Create_InvalidWindow(t *testing.T) {
	service := newTestVoucherService(new(MockVoucherRepository), new(MockOrderRepository))

	input := validInput()
	input.EndsAt = input.StartsAt.Add(-time.Minute)

	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_VOUCHER", domainErr.Code)
}

func TestVoucherService_Deactivate(t *testing.T) {
	ctx := context.Background()
	vouchers := new(MockVoucherRepository)
	service := newTestVoucherService(vouchers, new(MockOrderRepository))

	v, err := voucher.NewVoucher("Launch Week", "LAUNCH20", voucher.UsageMultiple,
		decimal.RequireFromString("20"), time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	vouchers.On("FindByID", ctx, v.ID).Return(v, nil)
	vouchers.On("Save", ctx, v).Return(nil)

	result, err := service.Deactivate(ctx, v.ID)

	require.NoError(t, err)
	assert.False(t, result.IsActive)
}

func TestVoucherService_Delete_Redeemed(t *testing.T) {
	ctx := context.Background()
	vouchers := new(MockVoucherRepository)
	orders := new(MockOrderRepository)
	service := newTestVoucherService(vouchers, orders)

	id := uuid.New()
	orders.On("CountByVoucher", ctx, id).Return(int64(3), nil)

	err := service.Delete(ctx, id)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VOUCHER_IN_USE", domainErr.Code)
	vouchers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVoucherService_Delete_Unused(t *testing.T) {
	ctx := context.Background()
	vouchers := new(MockVoucherRepository)
	orders := new(MockOrderRepository)
	service := newTestVoucherService(vouchers, orders)

	id := uuid.New()
	orders.On("CountByVoucher", ctx, id).Return(int64(0), nil)
	vouchers.On("Delete", ctx, id).Return(nil)

	require.NoError(t, service.Delete(ctx, id))
	vouchers.AssertExpectations(t)
}
