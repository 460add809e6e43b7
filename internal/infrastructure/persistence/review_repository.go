package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReviewRepository implements review.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rv review.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// FindByCustomerAndProduct finds the customer's review of a product
func (r *GormReviewRepository) FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*review.Review, error) {
	var rv review.Review
	if err := r.db.WithContext(ctx).
		First(&rv, "customer_id = ? AND product_id = ?", customerID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// FindByProduct finds a product's reviews, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ?", productID)
	if filter.OrderBy == "" {
		query = query.Order("created_at DESC")
	}
	if err := applyFilter(query, filter).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByProduct counts a product's reviews
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RatingSummary aggregates a product's average rating and review count
func (r *GormReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (*review.RatingSummary, error) {
	var row struct {
		AverageRating decimal.NullDecimal
		ReviewCount   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("AVG(rating) AS average_rating, COUNT(*) AS review_count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	summary := &review.RatingSummary{
		ProductID:   productID,
		ReviewCount: row.ReviewCount,
	}
	if row.AverageRating.Valid {
		summary.AverageRating = row.AverageRating.Decimal.Round(2)
	}
	return summary, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

// Delete deletes a review by ID
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
