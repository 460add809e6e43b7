package review

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Review is a customer's rating of a product. A customer reviews a
// product at most once; the pair is unique.
type Review struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	Rating     int
	Comment    string
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a review with a 1..5 star rating
func NewReview(customerID, productID uuid.UUID, rating int, comment string) (*Review, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		ProductID:         productID,
		Rating:            rating,
		Comment:           strings.TrimSpace(comment),
	}, nil
}

// Update changes the rating and comment
func (r *Review) Update(rating int, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	return nil
}

// IsAuthor reports whether the given customer wrote this review
func (r *Review) IsAuthor(customerID uuid.UUID) bool {
	return r.CustomerID == customerID
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}
