package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// maxInboundRequestIDLen caps client-supplied ids so a hostile header can't
// bloat logs or response metadata.
const maxInboundRequestIDLen = 64

// RequestIDMiddleware tags every request with an id, honoring a sane inbound
// X-Request-ID so the frontend can correlate its own traces.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" || len(reqID) > maxInboundRequestIDLen {
			reqID = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
