package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Store represents a seller's storefront. A store belongs to exactly
// one owner user and its name is unique across the system.
type Store struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store for an owner
func NewStore(ownerID uuid.UUID, name, description string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name must be between 1 and 200 characters")
	}

	s := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		OwnerID:           ownerID,
	}

	s.AddDomainEvent(NewStoreCreatedEvent(s))

	return s, nil
}

// Rename changes the store name
func (s *Store) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name must be between 1 and 200 characters")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}

// SetDescription updates the store description
func (s *Store) SetDescription(description string) {
	s.Description = strings.TrimSpace(description)
	s.UpdatedAt = time.Now()
}

// IsOwnedBy reports whether the given user owns this store
func (s *Store) IsOwnedBy(userID uuid.UUID) bool {
	return s.OwnerID == userID
}
