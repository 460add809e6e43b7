package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// RatingSummary aggregates the reviews of one product
type RatingSummary struct {
	ProductID     uuid.UUID       `json:"product_id"`
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

// ReviewRepository defines persistence operations for reviews
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error)
	Save(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
