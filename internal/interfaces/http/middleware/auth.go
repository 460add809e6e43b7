package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

const (
	claimsKey   = "auth_claims"
	userIDKey   = "auth_user_id"
	userKindKey = "auth_user_kind"
)

// RequireAuth validates the bearer token and stores the claims on the
// request context. Requests without a valid access token are rejected.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Access token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid access token")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid access token")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, userID)
		c.Set(userKindKey, identity.UserKind(claims.Kind))
		c.Next()
	}
}

// RequireStoreOwner rejects requests from accounts that are not store
// owners. Must run after RequireAuth.
func RequireStoreOwner() gin.HandlerFunc {
	return requireKind(identity.UserKindStoreOwner, "Only store owners may perform this action")
}

// RequireCustomer rejects requests from accounts that are not
// customers. Must run after RequireAuth.
func RequireCustomer() gin.HandlerFunc {
	return requireKind(identity.UserKindCustomer, "Only customers may perform this action")
}

func requireKind(kind identity.UserKind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserKind(c) != kind {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, message))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, or uuid.Nil when the
// request is anonymous.
func GetUserID(c *gin.Context) uuid.UUID {
	if id, ok := c.Get(userIDKey); ok {
		if userID, ok := id.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

// GetUserKind returns the authenticated user's kind, or "" when anonymous
func GetUserKind(c *gin.Context) identity.UserKind {
	if kind, ok := c.Get(userKindKey); ok {
		if userKind, ok := kind.(identity.UserKind); ok {
			return userKind
		}
	}
	return ""
}

// GetClaims returns the validated token claims, or nil when anonymous
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, ok := c.Get(claimsKey); ok {
		if parsed, ok := claims.(*auth.Claims); ok {
			return parsed
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
