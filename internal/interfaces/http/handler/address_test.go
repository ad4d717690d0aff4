package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	addressapp "github.com/commerce/backend/internal/application/address"
	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/interfaces/http/middleware"
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

func (m *MockAddressRepository) Save(ctx context.Context, entity *address.Address) error {
	args := m.Called(ctx, entity)
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

// fakeAuth injects JWT context values the way the JWT middleware does
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func newAddressTestRouter(repo *MockAddressRepository, userID uuid.UUID) *gin.Engine {
	h := NewAddressHandler(addressapp.NewAddressService(repo, zap.NewNop()))
	router := gin.New()
	group := router.Group("/addresses", fakeAuth(userID))
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	return router
}

func TestAddressHandler_Create(t *testing.T) {
	repo := new(MockAddressRepository)
	userID := uuid.New()

	repo.On("FindByUser", mock.Anything, userID).Return([]*address.Address{}, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*address.Address")).Return(nil)

	router := newAddressTestRouter(repo, userID)

	body, _ := json.Marshal(map[string]string{
		"line1":       "12 Rue de Rivoli",
		"city":        "Paris",
		"postal_code": "75001",
		"country":     "FR",
	})
	req := httptest.NewRequest(http.MethodPost, "/addresses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    AddressResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "FR", resp.Data.Country)
	assert.True(t, resp.Data.IsDefaultShipping)
	repo.AssertExpectations(t)
}

func TestAddressHandler_Create_InvalidCountry(t *testing.T) {
	repo := new(MockAddressRepository)
	router := newAddressTestRouter(repo, uuid.New())

	body, _ := json.Marshal(map[string]string{
		"line1":       "12 Rue de Rivoli",
		"city":        "Paris",
		"postal_code": "75001",
		"country":     "France",
	})
	req := httptest.NewRequest(http.MethodPost, "/addresses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestAddressHandler_Get_ForeignAddress(t *testing.T) {
	repo := new(MockAddressRepository)
	userID := uuid.New()

	other, err := address.NewAddress(uuid.New(), "1 Main St", "", "", "Lyon", "69001", "FR")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	router := newAddressTestRouter(repo, userID)

	req := httptest.NewRequest(http.MethodGet, "/addresses/"+other.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
