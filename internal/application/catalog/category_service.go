package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create adds a category; names are unique within a store
func (s *CategoryService) Create(ctx context.Context, storeID uuid.UUID, name, description string) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, storeID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category '%s' already exists", name))
	}

	category, err := catalog.NewCategory(storeID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Get returns one category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// ListByStore returns a store's categories
func (s *CategoryService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out, nil
}

// Rename changes a category's name, keeping per-store uniqueness
func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.Name != name {
		exists, err := s.categoryRepo.ExistsByName(ctx, category.StoreID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category '%s' already exists", name))
		}
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Blocked while products still reference it.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.productRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE",
			fmt.Sprintf("Cannot delete category '%s': %d products still reference it", category.Name, count))
	}
	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}
