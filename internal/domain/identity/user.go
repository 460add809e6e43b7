package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserKind discriminates the two user subtypes sharing the users table
type UserKind string

const (
	UserKindCustomer   UserKind = "customer"
	UserKindStoreOwner UserKind = "store_owner"
)

// IsValid checks if the user kind is a known value
func (k UserKind) IsValid() bool {
	return k == UserKindCustomer || k == UserKindStoreOwner
}

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a customer or a store owner. The two subtypes share
// the base fields; customer-only fields (default shipping address) are
// nullable and ignored for owners.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	Name         string
	Kind         UserKind

	// Customer payload: default shipping details applied to new orders
	// when the request omits them.
	ShippingAddress string
	ShippingCity    string
	ShippingCountry string
	ShippingZip     string
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a hashed password
func NewUser(email, password, name string, kind UserKind) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be between 1 and 200 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_KIND", "User kind must be 'customer' or 'store_owner'")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		Name:              name,
		Kind:              kind,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

// SetName updates the display name
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name must be between 1 and 200 characters")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

// SetShippingDefaults stores the customer's default shipping details
func (u *User) SetShippingDefaults(address, city, country, zip string) error {
	if u.Kind != UserKindCustomer {
		return shared.NewDomainError("INVALID_USER_KIND", "Only customers have shipping defaults")
	}
	u.ShippingAddress = strings.TrimSpace(address)
	u.ShippingCity = strings.TrimSpace(city)
	u.ShippingCountry = strings.TrimSpace(country)
	u.ShippingZip = strings.TrimSpace(zip)
	u.UpdatedAt = time.Now()
	return nil
}

// IsStoreOwner reports whether the user may own a store
func (u *User) IsStoreOwner() bool {
	return u.Kind == UserKindStoreOwner
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
