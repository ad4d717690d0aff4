package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/review"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements review.Repository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindAll finds all reviews matching the filter
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*review.Review, error) {
	var reviews []*review.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByProduct finds a page of reviews for a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*review.Review], error) {
	base := r.db.WithContext(ctx).Model(&review.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var reviews []*review.Review
	if err := applyPagination(base, filter).Find(&reviews).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(reviews, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByProductAndUser finds a user's review of a product
func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// AverageRating returns the mean rating over all reviews of the product
func (r *GormReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

// Delete deletes a review and its votes
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&review.Vote{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&review.Review{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveVote records a helpful vote on a review
func (r *GormReviewRepository) SaveVote(ctx context.Context, vote *review.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// HasVoted checks if the user already voted on the review
func (r *GormReviewRepository) HasVoted(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Vote{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "title", "body")
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "rating":
			query = query.Where("rating = ?", value)
		}
	}
	return query
}

// Ensure GormReviewRepository implements review.Repository
var _ review.Repository = (*GormReviewRepository)(nil)
