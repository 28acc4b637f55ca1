package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/platform/ctxutil"
)

var (
	errMissingToken = errors.New("Authentication required")
	errAccessDenied = errors.New("Access denied")
)

// AttachRequestContext seeds request data with client details so later
// layers (auth, audit) only fill in the principal.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
