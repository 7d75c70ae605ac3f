// api/middleware/auth_middleware.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/auth"
	"github.com/Annany2002/domain-ledger/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userId"
	ContextUsername = "username"
)

// AuthMiddleware creates a gin middleware for checking JWT authentication.
// It depends on the application configuration for the JWT secret.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(fmt.Errorf("%w: authorization header required", auth.ErrUnauthorized))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			_ = c.Error(fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrUnauthorized))
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(strings.TrimSpace(parts[1]), cfg.JWTSecret)
		if err != nil {
			customLog.Printf("AuthMiddleware: Token validation failed: %v", err)
			// ErrorHandler turns the typed token error into a 401.
			_ = c.Error(err)
			c.Abort()
			return
		}

		customLog.Debugf("AuthMiddleware: Token validated successfully for UserID: %s", claims.UserID)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}
