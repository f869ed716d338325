package middleware

import (
	"net/http"

	"tagdo/tagdo/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token (header or ?token= query)
// signed with secret. An empty secret disables the check.
func AuthMiddleware(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		claims, err := token.ExtractAndValidateToken(c, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("client", claims.Client)
		c.Next()
	}
}
