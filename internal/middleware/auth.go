package middleware

import (
	"errors"
	"net/http"
	"strings"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const identityKey = "identity"

// Authenticate is the authentication gate. It extracts the bearer token,
// verifies it, loads the user it names, and attaches the identity to the
// request context. Every failure terminates the request with 401; the
// sub-reason in the body is diagnostic only. It never logs the token.
func Authenticate(db *gorm.DB, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// A non-Bearer scheme is treated the same as no token at all.
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authorization header with a Bearer token is required",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, services.ErrExpiredToken) {
				reason = "expired_token"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   reason,
				"message": "Not authorized",
			})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			// Token outlived its account.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "stale_token",
				"message": "Not authorized",
			})
			return
		}

		c.Set(identityKey, &user)
		c.Next()
	}
}

// CurrentUser returns the identity attached by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// RequireRoles is the authorization gate: a pure role-set check over the
// identity Authenticate attached. It assumes Authenticate already ran.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "not_authenticated",
				"message": "Authentication is required before authorization",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "insufficient_role",
			"message": "Role '" + string(user.Role) + "' does not have access to this resource",
		})
	}
}
