package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key under which the request ID is
// stored for the envelope's metadata block.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an ID, honoring one supplied
// by the caller in X-Request-ID and echoing it back on the response so
// frontend and backend logs can be correlated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
