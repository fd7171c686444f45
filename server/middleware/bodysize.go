package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit restricts request bodies to maxBytes.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
