package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageStorage uploads and deletes product images. Implementations
// return shared.ErrUnavailable when no backend is configured.
type ImageStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	tagRepo      catalog.TagRepository
	storage      ImageStorage
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	tagRepo catalog.TagRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		logger:       logger,
	}
}

// SetImageStorage wires the object storage backend for images
func (s *ProductService) SetImageStorage(storage ImageStorage) {
	s.storage = storage
}

// Create lists a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.StoreID, req.Name, req.Description, req.Price, req.ProductionCost, req.Stock)
	if err != nil {
		return nil, err
	}
	product.SetCategory(req.CategoryID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("store_id", product.StoreID.String()),
		zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns one product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns products with filtering, search, and pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// ListByStore returns a store's products
func (s *ProductService) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["store_id"] = storeID
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// Update applies partial changes to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.ProductionCost != nil {
		if err := product.SetProductionCost(*req.ProductionCost); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.ClearDiscount {
		product.ClearDiscount()
	} else if req.DiscountPrice != nil {
		if err := product.SetDiscount(*req.DiscountPrice, req.DiscountEndDate); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product listing
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// SetTags replaces a product's tags, creating unknown tag names
func (s *ProductService) SetTags(ctx context.Context, productID uuid.UUID, names []string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	tags := make([]catalog.Tag, 0, len(names))
	for _, name := range names {
		existing, err := s.tagRepo.FindByName(ctx, name)
		switch {
		case err == nil:
			tags = append(tags, *existing)
		case shared.IsNotFound(err):
			tag, err := catalog.NewTag(name)
			if err != nil {
				return nil, err
			}
			if err := s.tagRepo.Save(ctx, tag); err != nil {
				return nil, err
			}
			tags = append(tags, *tag)
		default:
			return nil, err
		}
	}

	if err := s.productRepo.ReplaceTags(ctx, product.ID, tags); err != nil {
		return nil, err
	}
	product.Tags = tags

	resp := ToProductResponse(product)
	return &resp, nil
}

// UploadImage stores an image and attaches its URL to the product
func (s *ProductService) UploadImage(ctx context.Context, productID uuid.UUID, filename, contentType string, body io.Reader) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.ErrUnavailable
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := "products/" + productID.String() + "/" + uuid.NewString() + "-" + filename
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	if err := product.AddImage(url); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteImage removes an image from the product and from storage
func (s *ProductService) DeleteImage(ctx context.Context, productID uuid.UUID, url string) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.ErrUnavailable
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveImage(url); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		// The catalog row is already consistent; orphaned objects are
		// cleaned up out of band.
		s.logger.Warn("failed to delete image object", zap.String("url", url), zap.Error(err))
	}

	resp := ToProductResponse(product)
	return &resp, nil
}
