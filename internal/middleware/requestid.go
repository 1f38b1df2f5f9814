package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/terminus-math/internal/shared/id"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns every request an ID, reusing an inbound X-Request-ID
// only when it is one of ours (req_<ULID>).
// The ID is echoed in the response header and stored on the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID, err := id.ParseRequestID(c.GetHeader(RequestIDHeader))
		if err != nil {
			reqID = id.NewRequestID()
		}
		c.Set(requestIDKey, reqID.String())
		c.Header(RequestIDHeader, reqID.String())
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or "" outside that middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
