package middleware

import (
	"context"
	"net/http"
	"strings"

	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Context keys set by AuthMiddleware.
const (
	KeyUserID    = "user_id"
	KeyUserName  = "user_name"
	KeyUserRole  = "user_role"
	KeyUserStore = "user_store"
)

// SessionChecker confirms that the account a token was issued to may still act.
type SessionChecker interface {
	SessionActive(ctx context.Context, userID uuid.UUID, name, role string) (bool, error)
}

// AuthMiddleware validates the bearer token and, when sessions is non-nil, rejects tokens
// whose account has been deleted or whose allowlist entry has been revoked.
func AuthMiddleware(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if sessions != nil {
			active, err := sessions.SessionActive(c.Request.Context(), claims.UserID, claims.Name, claims.Role)
			if err != nil {
				log.Error().Err(err).Str("name", claims.Name).Msg("session lookup")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
				c.Abort()
				return
			}
			if !active {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "This session is no longer valid. Please sign in again."})
				c.Abort()
				return
			}
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyUserName, claims.Name)
		c.Set(KeyUserRole, claims.Role)
		if claims.StoreID != nil {
			c.Set(KeyUserStore, *claims.StoreID)
		}
		c.Next()
	}
}

// RequireRoles lets the request through only when the caller's role is one of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(KeyUserRole)
		if role == "" || !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles("admin")
}
