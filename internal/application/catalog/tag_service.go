package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TagService handles the global tag vocabulary
type TagService struct {
	tagRepo catalog.TagRepository
	logger  *zap.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo catalog.TagRepository, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: logger}
}

// Create adds a tag, returning the existing one when the normalized
// name is already known.
func (s *TagService) Create(ctx context.Context, name string) (*TagResponse, error) {
	tag, err := catalog.NewTag(name)
	if err != nil {
		return nil, err
	}
	existing, err := s.tagRepo.FindByName(ctx, tag.Name)
	if err == nil {
		resp := ToTagResponse(existing)
		return &resp, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	if err := s.tagRepo.Save(ctx, tag); err != nil {
		return nil, err
	}
	resp := ToTagResponse(tag)
	return &resp, nil
}

// Get returns one tag
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*TagResponse, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTagResponse(tag)
	return &resp, nil
}

// List returns tags matching the filter
func (s *TagService) List(ctx context.Context, filter shared.Filter) ([]TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, ToTagResponse(&tags[i]))
	}
	return out, nil
}

// Delete removes a tag from the vocabulary
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", zap.String("tag_id", id.String()))
	return nil
}
