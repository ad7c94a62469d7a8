package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/meshur/storefront-backend/pkg/util"
)

const APIKeyHeader = "X-API-KEY"

// RequireAPIKey guards admin routes with a key checked against its bcrypt
// hash. An empty hash disables the routes entirely.
func RequireAPIKey(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		key := c.GetHeader(APIKeyHeader)
		if key == "" || !util.VerifySecret(keyHash, key) {
			log.Warn("Admin request rejected", map[string]interface{}{
				"path":        c.Request.URL.Path,
				"key_present": key != "",
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthzAdminOnly, "Invalid or missing API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
