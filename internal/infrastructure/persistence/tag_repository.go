package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTagRepository implements catalog.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindByName finds a tag by its normalized name
func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindAll finds tags matching the filter
func (r *GormTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	query := r.db.WithContext(ctx).Model(&catalog.Tag{})
	query = applySearch(applyFilter(query, filter), filter, "name")
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, t *catalog.Tag) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a tag by ID
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Tag{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
