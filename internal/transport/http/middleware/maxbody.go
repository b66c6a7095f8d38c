package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "devprofile-api/internal/transport/http/response"
)

// MaxBodyBytes caps the request body. Reads past n fail with *http.MaxBytesError,
// which the action layer turns into 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
