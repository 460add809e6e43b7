package identity

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types for the identity domain
const (
	EventTypeUserRegistered = "identity.user.registered"
)

// UserRegisteredEvent is emitted when a new user signs up
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string   `json:"email"`
	Kind  UserKind `json:"kind"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, "User", user.ID),
		Email:           user.Email,
		Kind:            user.Kind,
	}
}
