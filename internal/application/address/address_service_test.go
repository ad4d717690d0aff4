package address

import (
	"context"
	"testing"

	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*address.Address, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, a *address.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*address.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressRepository) ClearDefaultShipping(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefaultBilling(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestAddressService(repo *MockAddressRepository) *AddressService {
	return NewAddressService(repo, zap.NewNop())
}

func validCreateInput(userID uuid.UUID) CreateAddressInput {
	return CreateAddressInput{
		UserID:     userID,
		Line1:      "12 Rue de la Paix",
		City:       "Paris",
		PostalCode: "75002",
		Country:    "fr",
	}
}

func TestAddressService_Create_FirstBecomesDefault(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	service := newTestAddressService(repo)

	userID := uuid.New()
	repo.On("FindByUser", ctx, userID).Return([]*address.Address{}, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*address.Address")).Return(nil)

	a, err := service.Create(ctx, validCreateInput(userID))

	require.NoError(t, err)
	assert.Equal(t, "FR", a.Country)
	assert.True(t, a.IsDefaultShipping)
	assert.True(t, a.IsDefaultBilling)
}

func TestAddressService_Create_SecondIsNotDefault(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	service := newTestAddressService(repo)

	userID := uuid.New()
	existing, err := address.NewAddress(userID, "1 Old Lane", "", "", "Lyon", "69001", "FR")
	require.NoError(t, err)

	repo.On("FindByUser", ctx, userID).Return([]*address.Address{existing}, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*address.Address")).Return(nil)

	a, err := service.Create(ctx, validCreateInput(userID))

	require.NoError(t, err)
	assert.False(t, a.IsDefaultShipping)
	assert.False(t, a.IsDefaultBilling)
}

func TestAddressService_Create_InvalidCountry(t *testing.T) {
	service := newTestAddressService(new(MockAddressRepository))

	input := validCreateInput(uuid.New())
	input.Country = "France"

	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ADDRESS", domainErr.Code)
}

func TestAddressService_Update_ForeignAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	service := newTestAddressService(repo)

	a, err := address.NewAddress(uuid.New(), "1 Main St", "", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	repo.On("FindByID", ctx, a.ID).Return(a, nil)

	_, err = service.Update(ctx, UpdateAddressInput{
		AddressID:  a.ID,
		UserID:     uuid.New(),
		Line1:      "2 Other St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddressService_SetDefaultShipping(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	service := newTestAddressService(repo)

	userID := uuid.New()
	a, err := address.NewAddress(userID, "1 Main St", "", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	repo.On("FindByID", ctx, a.ID).Return(a, nil)
	repo.On("ClearDefaultShipping", ctx, userID).Return(nil)
	repo.On("Save", ctx, a).Return(nil)

	result, err := service.SetDefaultShipping(ctx, a.ID, userID)

	require.NoError(t, err)
	assert.True(t, result.IsDefaultShipping)
	assert.False(t, result.IsDefaultBilling)
	repo.AssertExpectations(t)
}

func TestAddressService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	service := newTestAddressService(repo)

	userID := uuid.New()
	a, err := address.NewAddress(userID, "1 Main St", "", "", "Springfield", "12345", "US")
	require.NoError(t, err)

	repo.On("FindByID", ctx, a.ID).Return(a, nil)
	repo.On("Delete", ctx, a.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, a.ID, userID))
	repo.AssertExpectations(t)
}
