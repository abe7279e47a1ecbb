package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the context key for the per-request correlation id.
const CtxRequestID = "requestID"

// RequestID assigns every request a correlation id, reusing the
// client-supplied X-Request-ID when present, and echoes it in the
// response header so clients and proxies can correlate their logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
