package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/export"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Export, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

func (m *MockExportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*export.Export, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*export.Export), args.Error(1)
}

func (m *MockExportRepository) Save(ctx context.Context, e *export.Export) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExportRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*export.Export], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*export.Export]), args.Error(1)
}

func (m *MockExportRepository) NextPending(ctx context.Context) (*export.Export, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

// fakeStorage is an in-memory ObjectStorage for tests
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}
	return "https://storage.invalid/" + key, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func TestExportService_Request(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExportRepository)
	service := NewExportService(repo, newFakeStorage(), zap.NewNop())

	repo.On("Save", ctx, mock.AnythingOfType("*export.Export")).Return(nil)

	e, err := service.Request(ctx, RequestExportInput{
		RequestedBy: uuid.New(),
		Resource:    "orders",
	})

	require.NoError(t, err)
	assert.Equal(t, export.StatusCreated, e.Status)
	assert.Equal(t, export.ResourceOrders, e.Resource)
	repo.AssertExpectations(t)
}

func TestExportService_Request_UnknownResource(t *testing.T) {
	service := NewExportService(new(MockExportRepository), newFakeStorage(), zap.NewNop())

	_, err := service.Request(context.Background(), RequestExportInput{
		RequestedBy: uuid.New(),
		Resource:    "invoices",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_EXPORT", domainErr.Code)
}

func TestExportService_Get_ForeignJob(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExportRepository)
	service := NewExportService(repo, newFakeStorage(), zap.NewNop())

	e, err := export.NewExport(uuid.New(), export.ResourceUsers)
	require.NoError(t, err)

	repo.On("FindByID", ctx, e.ID).Return(e, nil)

	_, err = service.Get(ctx, e.ID, uuid.New(), false)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = service.Get(ctx, e.ID, uuid.New(), true)
	assert.NoError(t, err)
}

func TestExportService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExportRepository)
	storage := newFakeStorage()
	service := NewExportService(repo, storage, zap.NewNop())

	userID := uuid.New()
	e, err := export.NewExport(userID, export.ResourceProducts)
	require.NoError(t, err)
	require.NoError(t, e.Start())
	require.NoError(t, e.Complete("exports/products/file.csv"))
	require.NoError(t, storage.Upload(ctx, "exports/products/file.csv", []byte("name\n"), "text/csv"))

	repo.On("FindByID", ctx, e.ID).Return(e, nil)

	result, err := service.DownloadURL(ctx, e.ID, userID, false)

	require.NoError(t, err)
	assert.Contains(t, result.URL, "exports/products/file.csv")
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestExportService_DownloadURL_NotReady(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExportRepository)
	service := NewExportService(repo, newFakeStorage(), zap.NewNop())

	userID := uuid.New()
	e, err := export.NewExport(userID, export.ResourceProducts)
	require.NoError(t, err)

	repo.On("FindByID", ctx, e.ID).Return(e, nil)

	_, err = service.DownloadURL(ctx, e.ID, userID, false)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EXPORT_NOT_READY", domainErr.Code)
}
