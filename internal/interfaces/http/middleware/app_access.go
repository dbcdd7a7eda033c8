package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pox-ledger.backend/pkg/crypto"
)

const AppSecretHeader = "X-App-Secret"

// AppAccessMiddleware gates mutating endpoints behind a shared application
// secret, compared against its bcrypt hash. An empty configured hash disables
// the check (local development).
func AppAccessMiddleware(secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretHash == "" {
			c.Next()
			return
		}

		secret := c.GetHeader(AppSecretHeader)
		if secret == "" || !crypto.CheckSecret(secret, secretHash) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "forbidden",
				"message": "invalid application secret",
			})
			return
		}

		c.Next()
	}
}
