package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReviewRepository is a mock implementation of review.ReviewRepository
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

func (m *MockReviewRepository) FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, customerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (*review.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubProductRepo satisfies catalog.ProductRepository for review tests;
// only FindByID is exercised.
type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (s *stubProductRepo) WithTx(tx shared.Tx) catalog.ProductRepository { return s }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.FindByID(ctx, id)
}

func (s *stubProductRepo) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (s *stubProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubProductRepo) Save(ctx context.Context, p *catalog.Product) error { return nil }

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubProductRepo) ReplaceTags(ctx context.Context, productID uuid.UUID, tags []catalog.Tag) error {
	return nil
}

func newTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.New(), "Widget", "", decimal.NewFromInt(10), decimal.NewFromInt(4), 5)
	require.NoError(t, err)
	return p
}

func TestReviewService_Create(t *testing.T) {
	product := newTestProduct(t)
	productRepo := &stubProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}}
	customerID := uuid.New()

	t.Run("posts a first review", func(t *testing.T) {
		repo := new(MockReviewRepository)
		repo.On("FindByCustomerAndProduct", mock.Anything, customerID, product.ID).Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*review.Review")).Return(nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		resp, err := svc.Create(context.Background(), customerID, CreateReviewRequest{
			ProductID: product.ID,
			Rating:    4,
			Comment:   "solid",
		})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Rating)
		assert.Equal(t, customerID, resp.CustomerID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a second review for the same product", func(t *testing.T) {
		existing, err := review.NewReview(customerID, product.ID, 5, "")
		require.NoError(t, err)

		repo := new(MockReviewRepository)
		repo.On("FindByCustomerAndProduct", mock.Anything, customerID, product.ID).Return(existing, nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		_, err = svc.Create(context.Background(), customerID, CreateReviewRequest{
			ProductID: product.ID,
			Rating:    2,
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		repo := new(MockReviewRepository)
		svc := NewReviewService(repo, productRepo, zap.NewNop())

		_, err := svc.Create(context.Background(), customerID, CreateReviewRequest{
			ProductID: uuid.New(),
			Rating:    3,
		})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	product := newTestProduct(t)
	productRepo := &stubProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}}
	author := uuid.New()
	r, err := review.NewReview(author, product.ID, 3, "ok")
	require.NoError(t, err)

	t.Run("author can edit", func(t *testing.T) {
		repo := new(MockReviewRepository)
		repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		repo.On("Save", mock.Anything, r).Return(nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		resp, err := svc.Update(context.Background(), r.ID, author, UpdateReviewRequest{Rating: 5, Comment: "better"})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Rating)
	})

	t.Run("stranger cannot edit", func(t *testing.T) {
		repo := new(MockReviewRepository)
		repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		_, err := svc.Update(context.Background(), r.ID, uuid.New(), UpdateReviewRequest{Rating: 1})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "FORBIDDEN", de.Code)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		repo := new(MockReviewRepository)
		repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		err := svc.Delete(context.Background(), r.ID, uuid.New())

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "FORBIDDEN", de.Code)
	})

	t.Run("author can delete", func(t *testing.T) {
		repo := new(MockReviewRepository)
		repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		repo.On("Delete", mock.Anything, r.ID).Return(nil)

		svc := NewReviewService(repo, productRepo, zap.NewNop())
		require.NoError(t, svc.Delete(context.Background(), r.ID, author))
		repo.AssertExpectations(t)
	})
}
