package review

import (
	"context"
	"testing"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/review"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*review.Review, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*review.Review], error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*review.Review]), args.Error(1)
}

func (m *MockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReviewRepository) SaveVote(ctx context.Context, vote *review.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockReviewRepository) HasVoted(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, reviewID, userID)
	return args.Bool(0), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySubCategory(ctx context.Context, subCategoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, subCategoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestReviewService(reviews *MockReviewRepository, products *MockProductRepository) (*ReviewService, *recordingPublisher) {
	bus := &recordingPublisher{}
	return NewReviewService(reviews, products, bus, zap.NewNop()), bus
}

func newCatalogProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Pour Over Kettle", "", decimal.RequireFromString("35.00"))
	require.NoError(t, err)
	return p
}

func TestReviewService_Submit_New(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	service, bus := newTestReviewService(reviews, products)

	product := newCatalogProduct(t)
	userID := uuid.New()

	products.On("FindByID", ctx, product.ID).Return(product, nil)
	reviews.On("FindByProductAndUser", ctx, product.ID, userID).Return(nil, shared.ErrNotFound)
	reviews.On("Save", ctx, mock.AnythingOfType("*review.Review")).Return(nil)

	r, err := service.Submit(ctx, SubmitReviewInput{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    4,
		Title:     "Pours beautifully",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)
	require.Len(t, bus.events, 1)
	assert.Equal(t, review.EventTypeReviewSubmitted, bus.events[0].EventType())
	assert.Empty(t, r.GetDomainEvents())
}

func TestReviewService_Submit_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	service, bus := newTestReviewService(reviews, products)

	product := newCatalogProduct(t)
	userID := uuid.New()
	existing, err := review.NewReview(product.ID, userID, 2, "Meh", "")
	require.NoError(t, err)
	existing.ClearDomainEvents()

	products.On("FindByID", ctx, product.ID).Return(product, nil)
	reviews.On("FindByProductAndUser", ctx, product.ID, userID).Return(existing, nil)
	reviews.On("Save", ctx, existing).Return(nil)

	r, err := service.Submit(ctx, SubmitReviewInput{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    5,
		Title:     "Grew on me",
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, r.ID)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "Grew on me", r.Title)
	require.Len(t, bus.events, 1)
}

func TestReviewService_Submit_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	products := new(MockProductRepository)
	service, _ := newTestReviewService(reviews, products)

	productID := uuid.New()
	products.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

	_, err := service.Submit(ctx, SubmitReviewInput{
		ProductID: productID,
		UserID:    uuid.New(),
		Rating:    3,
		Title:     "Ghost product",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
}

func TestReviewService_Delete_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, bus := newTestReviewService(reviews, new(MockProductRepository))

	userID := uuid.New()
	r, err := review.NewReview(uuid.New(), userID, 3, "Fine", "")
	require.NoError(t, err)
	r.ClearDomainEvents()

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("Delete", ctx, r.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, r.ID, userID, false))
	require.Len(t, bus.events, 1)
	assert.Equal(t, review.EventTypeReviewDeleted, bus.events[0].EventType())
}

func TestReviewService_Delete_NotOwner(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 3, "Fine", "")
	require.NoError(t, err)

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)

	err = service.Delete(ctx, r.ID, uuid.New(), false)

	assert.ErrorIs(t, err, shared.ErrForbidden)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewService_Delete_Moderator(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 3, "Fine", "")
	require.NoError(t, err)

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("Delete", ctx, r.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, r.ID, uuid.New(), true))
}

func TestReviewService_Vote(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 4, "Helpful", "")
	require.NoError(t, err)
	voterID := uuid.New()

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("HasVoted", ctx, r.ID, voterID).Return(false, nil)
	reviews.On("SaveVote", ctx, mock.AnythingOfType("*review.Vote")).Return(nil)
	reviews.On("Save", ctx, r).Return(nil)

	result, err := service.Vote(ctx, r.ID, voterID, review.VoteUp)

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalVotes)
	reviews.AssertExpectations(t)
}

func TestReviewService_Vote_Down(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 4, "Helpful", "")
	require.NoError(t, err)
	voterID := uuid.New()

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("HasVoted", ctx, r.ID, voterID).Return(false, nil)
	reviews.On("SaveVote", ctx, mock.AnythingOfType("*review.Vote")).Return(nil)
	reviews.On("Save", ctx, r).Return(nil)

	result, err := service.Vote(ctx, r.ID, voterID, review.VoteDown)

	require.NoError(t, err)
	assert.Equal(t, -1, result.TotalVotes)
	reviews.AssertExpectations(t)
}

func TestReviewService_Vote_InvalidValue(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 4, "Helpful", "")
	require.NoError(t, err)
	voterID := uuid.New()

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("HasVoted", ctx, r.ID, voterID).Return(false, nil)

	_, err = service.Vote(ctx, r.ID, voterID, 3)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_VOTE", domainErr.Code)
	reviews.AssertNotCalled(t, "SaveVote", mock.Anything, mock.Anything)
}

func TestReviewService_Vote_OwnReview(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	userID := uuid.New()
	r, err := review.NewReview(uuid.New(), userID, 4, "Helpful", "")
	require.NoError(t, err)

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)

	_, err = service.Vote(ctx, r.ID, userID, review.VoteUp)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OWN_REVIEW_VOTE", domainErr.Code)
}

func TestReviewService_Vote_Twice(t *testing.T) {
	ctx := context.Background()
	reviews := new(MockReviewRepository)
	service, _ := newTestReviewService(reviews, new(MockProductRepository))

	r, err := review.NewReview(uuid.New(), uuid.New(), 4, "Helpful", "")
	require.NoError(t, err)
	voterID := uuid.New()

	reviews.On("FindByID", ctx, r.ID).Return(r, nil)
	reviews.On("HasVoted", ctx, r.ID, voterID).Return(true, nil)

	_, err = service.Vote(ctx, r.ID, voterID, review.VoteUp)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_VOTED", domainErr.Code)
	reviews.AssertNotCalled(t, "SaveVote", mock.Anything, mock.Anything)
}
