// server/internal/api/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// IdentityKey is the gin context key holding the caller's models.Identity.
const IdentityKey = "identity"

type TokenParser interface {
	Parse(tokenString string) (*auth.JWTClaims, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate verifies the bearer token and puts the identity into the context.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(IdentityKey, claims.Identity())
		c.Next()
	}
}

// RequireActive is the strict variant of Authenticate: it reloads the user,
// rejects blocked accounts, and refreshes role and name from storage so that
// role changes apply without a new login. It must run after Authenticate.
func RequireActive(users UserLookup, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrInvalidID) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
				return
			}
			log.WithError(err).Error("Failed to load user for active check")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if user.Status == models.StatusBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account is blocked"})
			return
		}

		identity.Role = user.Role
		identity.Name = user.Name
		identity.Email = user.Email
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// Authorize permits the request only if the caller's role is in allowedRoles.
// Without an identity in the context it fails closed.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if identity.HasRole(allowedRoles...) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// CurrentIdentity returns the identity attached by Authenticate.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}
