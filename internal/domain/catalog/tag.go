package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Tag is a global label attachable to products
type Tag struct {
	shared.BaseEntity
	Name string
}

// TableName returns the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

// NewTag creates a new tag with a normalized name
func NewTag(name string) (*Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_TAG_NAME", "Tag name must be between 1 and 50 characters")
	}
	return &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
