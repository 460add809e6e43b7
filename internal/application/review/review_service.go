package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateReviewRequest contains the input for posting a review
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=2000"`
}

// UpdateReviewRequest contains the input for editing a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse is the client representation of a review
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToReviewResponse maps a review aggregate to its client representation
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		ProductID:  r.ProductID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ReviewService handles product reviews
type ReviewService struct {
	reviewRepo  review.ReviewRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create posts a review. Each customer may review a product once.
func (s *ReviewService) Create(ctx context.Context, customerID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.FindByCustomerAndProduct(ctx, customerID, req.ProductID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "You have already reviewed this product")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	r, err := review.NewReview(customerID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("rating", req.Rating))

	resp := ToReviewResponse(r)
	return &resp, nil
}

// Get returns one review
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

// ListByProduct returns a product's reviews
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[ReviewResponse], error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return shared.Paginated[ReviewResponse]{}, err
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		return shared.Paginated[ReviewResponse]{}, err
	}
	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, ToReviewResponse(&reviews[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Summary returns the aggregate rating of a product
func (s *ReviewService) Summary(ctx context.Context, productID uuid.UUID) (*review.RatingSummary, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.RatingSummary(ctx, productID)
}

// Update edits a review. Only the author may edit.
func (s *ReviewService) Update(ctx context.Context, id, customerID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsAuthor(customerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the author can edit a review")
	}
	if err := r.Update(req.Rating, req.Comment); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

// Delete removes a review. Only the author may delete.
func (s *ReviewService) Delete(ctx context.Context, id, customerID uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.IsAuthor(customerID) {
		return shared.NewDomainError("FORBIDDEN", "Only the author can delete a review")
	}
	return s.reviewRepo.Delete(ctx, r.ID)
}
