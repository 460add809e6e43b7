package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Kind     string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshResult contains the result of a token refresh
type RefreshResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	Name            *string
	ShippingAddress *string
	ShippingCity    *string
	ShippingCountry *string
	ShippingZip     *string
}

// UserInfo contains basic user information returned to clients
type UserInfo struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	ShippingCity    string    `json:"shipping_city,omitempty"`
	ShippingCountry string    `json:"shipping_country,omitempty"`
	ShippingZip     string    `json:"shipping_zip,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToUserInfo maps a user aggregate to its client representation
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Kind:            string(u.Kind),
		ShippingAddress: u.ShippingAddress,
		ShippingCity:    u.ShippingCity,
		ShippingCountry: u.ShippingCountry,
		ShippingZip:     u.ShippingZip,
		CreatedAt:       u.CreatedAt,
	}
}
