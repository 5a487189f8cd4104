package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/link-optimizer/backend/logging"
)

// ErrorHandler middleware recovers from any panics and handles errors
func ErrorHandler(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logging.String("panic", fmt.Sprint(err)),
					logging.String("path", c.Request.URL.Path),
					logging.String("stack", string(debug.Stack())),
				)

				// Return a 500 error to the client
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
