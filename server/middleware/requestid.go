package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/pipelayer/validation"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

// ContextKeyRequestID is the gin.Context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestID injects an X-Request-Id header into every request and response.
// An incoming id is kept when it is a UUID and replaced otherwise.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || validation.New().OptionalUUID("request_id", id).HasErrors() {
			id = uuid.NewString()
		}
		c.Request.Header.Set(HeaderRequestID, id)
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
