package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/store"
)

// CreateStoreRequest contains the input for opening a store
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateStoreRequest contains partial store changes
type UpdateStoreRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// StoreResponse is the client representation of a store
type StoreResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToStoreResponse maps a store aggregate to its client representation
func ToStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		OwnerID:     s.OwnerID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
