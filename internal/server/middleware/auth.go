package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OwnerKey is the gin context key holding the authenticated owner id.
const OwnerKey = "owner_id"

// OwnerResolver maps a bearer token to an owner id.
type OwnerResolver interface {
	OwnerFromToken(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(resolver OwnerResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		owner, err := resolver.OwnerFromToken(token)
		if err != nil {
			logger.Debug("rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// Owner returns the authenticated owner id, or "" outside RequireAuth.
func Owner(c *gin.Context) string {
	return c.GetString(OwnerKey)
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
