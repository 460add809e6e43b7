package store

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types for the store domain
const (
	EventTypeStoreCreated = "store.created"
)

// StoreCreatedEvent is emitted when a store is registered
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(s *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, "Store", s.ID),
		Name:            s.Name,
	}
}
