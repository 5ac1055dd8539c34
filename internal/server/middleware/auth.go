package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-catalog/internal/core/domain"
)

// Auth checks for one of the configured keys in a Bearer Authorization header.
func Auth(keys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(domain.UnauthorizedError("Missing Authorization header"))
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			_ = c.Error(domain.UnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		if !validKey(keys, token) {
			_ = c.Error(domain.UnauthorizedError("Invalid API key"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func validKey(keys []string, token string) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(token)) == 1 {
			return true
		}
	}
	return false
}
